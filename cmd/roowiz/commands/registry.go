package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/logging"
	"github.com/rooforge/roowiz/internal/registry"
)

// Package-level flag variables for the registry subcommands.
var (
	registryListJSON     bool
	registryListTags     []string
	registryListSearch   string
	registryListPage     int
	registryListPageSize int

	registryShowJSON bool

	registrySearchJSON        bool
	registrySearchInteractive bool
	registrySearchCategory    string
	registrySearchMinRating   float64
	registrySearchMax         int
)

func init() {
	registryListCmd.Flags().BoolVar(&registryListJSON, "json", false, "Output in JSON format")
	registryListCmd.Flags().StringSliceVar(&registryListTags, "tag", nil,
		"filter by tag (repeatable)")
	registryListCmd.Flags().StringVar(&registryListSearch, "search", "",
		"filter by free-text search")
	registryListCmd.Flags().IntVar(&registryListPage, "page", 0, "result page")
	registryListCmd.Flags().IntVar(&registryListPageSize, "page-size", 0, "results per page")

	registryShowCmd.Flags().BoolVar(&registryShowJSON, "json", false, "Output in JSON format")

	registrySearchCmd.Flags().BoolVar(&registrySearchJSON, "json", false, "Output in JSON format")
	registrySearchCmd.Flags().BoolVarP(&registrySearchInteractive, "interactive", "i", false,
		"pick a result with a fuzzy finder")
	registrySearchCmd.Flags().StringVar(&registrySearchCategory, "category", "",
		"restrict results to a category")
	registrySearchCmd.Flags().Float64Var(&registrySearchMinRating, "min-rating", 0,
		"minimum connector rating")
	registrySearchCmd.Flags().IntVar(&registrySearchMax, "max", 0, "maximum number of results")

	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryShowCmd)
	registryCmd.AddCommand(registryCategoriesCmd)
	registryCmd.AddCommand(registrySearchCmd)
	rootCmd.AddCommand(registryCmd)
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Browse the connector registry",
	Long: `Browse the remote connector registry.

Responses are cached locally; use --no-cache to bypass the cache.`,
	Example: `  # List available connectors
  roowiz registry list

  # Show one connector's metadata
  roowiz registry show github

  See Also: roowiz configure`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// newRegistryClient builds a catalog client from the effective options.
func newRegistryClient(cmd *cobra.Command) *registry.Client {
	opts := effectiveOptions()
	return registry.New(registry.Options{
		BaseURL:       opts.RegistryURL,
		Token:         opts.RegistryToken,
		Timeout:       opts.RequestTimeout,
		RetryAttempts: opts.RetryAttempts,
		RetryDelay:    opts.RetryDelay,
		CacheEnabled:  opts.CacheEnabled,
		Logger:        logging.FromContext(cmd.Context()),
	})
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available connectors",
	Example: `  # List everything
  roowiz registry list

  # Filter by tag
  roowiz registry list --tag database`,
	RunE: runRegistryList,
}

func runRegistryList(cmd *cobra.Command, _ []string) error {
	return runRegistryListWithWriter(cmd, os.Stdout)
}

func runRegistryListWithWriter(cmd *cobra.Command, w io.Writer) error {
	list, err := newRegistryClient(cmd).GetServers(cmd.Context(), registry.ServerFilter{
		Page:     registryListPage,
		PageSize: registryListPageSize,
		Tags:     registryListTags,
		Search:   registryListSearch,
	})
	if err != nil {
		return err
	}

	if registryListJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(list), "encoding output")
	}

	if len(list.Servers) == 0 {
		fmt.Fprintln(w, "No connectors found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "NAME", "TAGS", "RATING"})
	for _, s := range list.Servers {
		t.AppendRow(table.Row{
			s.ID,
			truncate(s.Name, 30),
			strings.Join(s.Tags, ", "),
			fmt.Sprintf("%.1f", s.Rating),
		})
	}
	t.Render()

	fmt.Fprintf(w, "%d of %d connector(s)\n", len(list.Servers), list.Total)
	return nil
}

var registryShowCmd = &cobra.Command{
	Use:   "show <connector-id>",
	Short: "Show a connector's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryShow,
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	return runRegistryShowWithWriter(cmd, args[0], os.Stdout)
}

func runRegistryShowWithWriter(cmd *cobra.Command, id string, w io.Writer) error {
	meta, err := newRegistryClient(cmd).GetServerDetails(cmd.Context(), id)
	if err != nil {
		return err
	}

	if registryShowJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(meta), "encoding output")
	}

	fmt.Fprintf(w, "%s (%s)\n", meta.Name, meta.ID)
	if meta.Description != "" {
		fmt.Fprintf(w, "  %s\n", meta.Description)
	}
	fmt.Fprintf(w, "  command: %s %s\n", meta.Command, strings.Join(meta.BaseArgs, " "))
	if len(meta.Tags) > 0 {
		fmt.Fprintf(w, "  tags:    %s\n", strings.Join(meta.Tags, ", "))
	}
	if len(meta.RecommendedPermissions) > 0 {
		fmt.Fprintf(w, "  allows:  %s\n", strings.Join(meta.RecommendedPermissions, ", "))
	}

	printParams := func(label string, params []registry.Param) {
		if len(params) == 0 {
			return
		}
		fmt.Fprintf(w, "  %s:\n", label)
		for _, p := range params {
			secret := ""
			if p.Secret {
				secret = " (secret)"
			}
			def := ""
			if p.Default != "" {
				def = fmt.Sprintf(" [default: %s]", p.Default)
			}
			fmt.Fprintf(w, "    --param %s=...%s%s\n", p.Name, secret, def)
		}
	}
	printParams("required", meta.RequiredParams)
	printParams("optional", meta.OptionalParams)

	return nil
}

var registryCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List registry categories",
	RunE:  runRegistryCategories,
}

func runRegistryCategories(cmd *cobra.Command, _ []string) error {
	return runRegistryCategoriesWithWriter(cmd, os.Stdout)
}

func runRegistryCategoriesWithWriter(cmd *cobra.Command, w io.Writer) error {
	list, err := newRegistryClient(cmd).GetCategories(cmd.Context())
	if err != nil {
		return err
	}

	for _, c := range list.Categories {
		fmt.Fprintf(w, "%-20s %d\n", c.Name, c.Count)
	}
	return nil
}

var registrySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the registry",
	Example: `  # Search for database connectors
  roowiz registry search postgres

  # Pick a result interactively
  roowiz registry search database --interactive`,
	Args: cobra.ExactArgs(1),
	RunE: runRegistrySearch,
}

func runRegistrySearch(cmd *cobra.Command, args []string) error {
	return runRegistrySearchWithWriter(cmd, args[0], os.Stdout)
}

func runRegistrySearchWithWriter(cmd *cobra.Command, query string, w io.Writer) error {
	results, err := newRegistryClient(cmd).SearchServers(cmd.Context(), registry.SearchQuery{
		Q:          query,
		Category:   registrySearchCategory,
		MinRating:  registrySearchMinRating,
		MaxResults: registrySearchMax,
	})
	if err != nil {
		return err
	}

	if registrySearchInteractive {
		return runInteractiveSearch(w, results.Results)
	}

	if registrySearchJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding output")
	}

	if len(results.Results) == 0 {
		fmt.Fprintln(w, "No connectors found.")
		return nil
	}

	for _, s := range results.Results {
		fmt.Fprintf(w, "%-20s %s\n", s.ID, truncate(s.Description, 55))
	}
	fmt.Fprintf(w, "%d result(s)\n", results.Total)
	return nil
}

func runInteractiveSearch(w io.Writer, results []registry.ConnectorMetadata) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No connectors found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		results,
		func(i int) string {
			return fmt.Sprintf("%s: %s", results[i].ID, results[i].Name)
		},
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i == -1 {
				return ""
			}
			m := results[i]
			return fmt.Sprintf("ID: %s\nName: %s\nCommand: %s %s\n\nDescription:\n%s",
				m.ID,
				m.Name,
				m.Command,
				strings.Join(m.BaseArgs, " "),
				m.Description,
			)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	m := results[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", m.ID, m.Name)
	fmt.Fprintf(w, "Configure it with: roowiz configure %s\n", m.ID)
	return nil
}
