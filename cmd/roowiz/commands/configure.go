package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/wizard"
)

// Package-level flag variables for the configure command.
var (
	configureParams       []string
	configurePermissions  []string
	configureOrganization string
	configurePackage      string
)

func init() {
	configureCmd.Flags().StringSliceVar(&configureParams, "param", nil,
		"connector parameter in KEY=VALUE format (repeatable)")
	configureCmd.Flags().StringSliceVar(&configurePermissions, "permission", nil,
		"extra alwaysAllow permission beyond the connector's recommendations (repeatable)")
	configureCmd.Flags().StringVar(&configureOrganization, "org", "",
		"organization for {organization} placeholders in catalog args")
	configureCmd.Flags().StringVar(&configurePackage, "package", "",
		"package for {package} placeholders in catalog args")
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure <connector-id>",
	Short: "Configure an MCP service connector",
	Long: `Configure an MCP service connector from the registry.

Fetches the connector's metadata, generates a server-configuration
record and a paired assistant mode, and merges both into the project
documents. Both documents are backed up before the mutation and the
written result is validated; on any failure the documents are restored
to their pre-workflow state.

Secret parameters (catalog-declared or secret-looking names such as
token, apiKey, password) are persisted as ${env:VAR} placeholders.
Export the named variable before launching the connector.`,
	Example: `  # Configure the github connector
  roowiz configure github --param token=$GITHUB_TOKEN

  # Configure with extra permissions and an explicit package
  roowiz configure postgres --param connectionString=$DB_URL \
    --permission query --org mcp --package server-postgres

  See Also: roowiz update, roowiz remove, roowiz list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	values, err := parseKeyValueSlice(configureParams, "--param")
	if err != nil {
		return err
	}
	params := mcpconfig.Params{
		Values:       values,
		Permissions:  configurePermissions,
		Organization: configureOrganization,
		Package:      configurePackage,
	}
	return runConfigureWith(cmd, args[0], os.Stdout, newWizard(cmd).ConfigureServer, "Configured", params)
}

// configureFunc matches ConfigureServer and UpdateServer so the configure
// and update commands share one code path.
type configureFunc func(ctx context.Context, id string, params mcpconfig.Params) (*wizard.ConfigureResult, error)

func runConfigureWith(cmd *cobra.Command, id string, w io.Writer, run configureFunc, verb string, params mcpconfig.Params) error {
	result, err := run(cmd.Context(), id, params)
	if err != nil {
		if result != nil && len(result.Violations) > 0 {
			printViolations(w, result.Violations)
			printBackups(w, result.Backups)
		}
		return err
	}

	fmt.Fprintf(w, "%s %s %s\n", color.GreenString("✓"), verb, color.New(color.Bold).Sprint(id))
	printBackups(w, result.Backups)

	if rec, ok := result.Document.MCPServers[id]; ok {
		fmt.Fprintf(w, "  command: %s %s\n", rec.Command, strings.Join(rec.Args, " "))
		if len(rec.AlwaysAllow) > 0 {
			fmt.Fprintf(w, "  allowed: %s\n", strings.Join(rec.AlwaysAllow, ", "))
		}
		printEnvHints(w, rec)
	}
	if mode, i := result.Modes.Find(mcpconfig.ModeSlug(id)); i >= 0 {
		fmt.Fprintf(w, "  mode:    %s (%s)\n", mode.Slug, mode.Name)
	}

	return nil
}

// printEnvHints reminds the user which environment variables the generated
// record expects at run time.
func printEnvHints(w io.Writer, rec *mcpconfig.ServerConfig) {
	var vars []string
	for _, arg := range rec.Args {
		if v, ok := cutEnvPlaceholder(arg); ok {
			vars = append(vars, v)
		}
	}
	for _, val := range rec.Env {
		if v, ok := cutEnvPlaceholder(val); ok {
			vars = append(vars, v)
		}
	}
	for _, v := range vars {
		if _, set := os.LookupEnv(v); !set {
			fmt.Fprintf(w, "  %s export %s before launching the connector\n",
				color.YellowString("!"), v)
		}
	}
}

// cutEnvPlaceholder extracts the variable name from a ${env:VAR} value.
func cutEnvPlaceholder(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, "${env:")
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, "}")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
