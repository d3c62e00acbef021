package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

// Package-level flag variables for the update command.
var (
	updateParams       []string
	updatePermissions  []string
	updateOrganization string
	updatePackage      string
)

func init() {
	updateCmd.Flags().StringSliceVar(&updateParams, "param", nil,
		"connector parameter in KEY=VALUE format (repeatable)")
	updateCmd.Flags().StringSliceVar(&updatePermissions, "permission", nil,
		"extra alwaysAllow permission beyond the connector's recommendations (repeatable)")
	updateCmd.Flags().StringVar(&updateOrganization, "org", "",
		"organization for {organization} placeholders in catalog args")
	updateCmd.Flags().StringVar(&updatePackage, "package", "",
		"package for {package} placeholders in catalog args")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <connector-id>",
	Short: "Update an already configured connector",
	Long: `Update an already configured connector with fresh registry metadata
and new parameter values.

The connector must be configured; updating an unknown connector fails
before any document is touched. The record is regenerated from current
registry metadata, so catalog changes (new base args, permissions)
are picked up. The same backup-validate-rollback protection as
configure applies.`,
	Example: `  # Rotate a parameter value
  roowiz update postgres --param region=eu-central-1

  See Also: roowiz configure, roowiz remove`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	values, err := parseKeyValueSlice(updateParams, "--param")
	if err != nil {
		return err
	}
	params := mcpconfig.Params{
		Values:       values,
		Permissions:  updatePermissions,
		Organization: updateOrganization,
		Package:      updatePackage,
	}
	return runConfigureWith(cmd, args[0], os.Stdout, newWizard(cmd).UpdateServer, "Updated", params)
}
