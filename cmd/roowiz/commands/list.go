package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured connectors",
	Long: `List all configured connectors with their launch commands,
permissions, and paired assistant modes.

Connectors are listed in alphabetical order. A connector without a
paired mode shows an empty MODE column; the validator reports such
records as unpaired.`,
	Example: `  # List configured connectors
  roowiz list

  # Output as JSON
  roowiz list --json

  See Also: roowiz configure, roowiz validate`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, os.Stdout)
}

func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	result, err := newWizard(cmd).ListConfiguredServers()
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding output")
	}

	if len(result.Servers) == 0 {
		fmt.Fprintln(w, "No connectors configured.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "COMMAND", "ALLOWED", "MODE"})
	for _, s := range result.Servers {
		command := strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
		t.AppendRow(table.Row{
			s.ID,
			truncate(command, 60),
			strings.Join(s.AlwaysAllow, ", "),
			s.ModeSlug,
		})
	}
	t.Render()

	fmt.Fprintf(w, "%d connector(s) configured\n", len(result.Servers))
	return nil
}
