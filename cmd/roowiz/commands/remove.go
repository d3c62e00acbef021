package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <connector-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a configured connector",
	Long: `Remove a connector's server-configuration record and its paired
assistant mode.

Both documents are backed up before the removal and validated after
it; on failure they are restored. Modes not paired with the connector
are left untouched.`,
	Example: `  # Remove the github connector and its mcp-github mode
  roowiz remove github

  See Also: roowiz configure, roowiz list`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	return runRemoveWithWriter(cmd, args[0], os.Stdout)
}

func runRemoveWithWriter(cmd *cobra.Command, id string, w io.Writer) error {
	result, err := newWizard(cmd).RemoveServer(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Removed %s\n", color.GreenString("✓"), color.New(color.Bold).Sprint(id))
	if result.RemovedMode != "" {
		fmt.Fprintf(w, "  mode:   %s\n", result.RemovedMode)
	}
	printBackups(w, result.Backups)
	return nil
}
