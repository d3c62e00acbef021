package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/errors"
)

var envcheckJSON bool

func init() {
	envcheckCmd.Flags().BoolVar(&envcheckJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(envcheckCmd)
}

var envcheckCmd = &cobra.Command{
	Use:   "envcheck",
	Short: "Check that referenced environment variables are set",
	Long: `Check that every ${env:VAR} placeholder in .roo/mcp.json resolves
to a set environment variable.

Connectors configured with secret placeholders will fail at launch
when the variable is missing; envcheck catches that before launch.`,
	Example: `  # Check the current environment
  roowiz envcheck

  See Also: roowiz audit, roowiz configure`,
	RunE: runEnvcheck,
}

func runEnvcheck(cmd *cobra.Command, _ []string) error {
	return runEnvcheckWithWriter(cmd, os.Stdout)
}

func runEnvcheckWithWriter(cmd *cobra.Command, w io.Writer) error {
	result, err := newWizard(cmd).ValidateEnvVars()
	if err != nil {
		return err
	}

	if envcheckJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "encoding output")
		}
	} else {
		refs := result.Refs
		if len(refs.References) == 0 {
			fmt.Fprintln(w, "No environment references found.")
			return nil
		}

		for _, ref := range refs.References {
			mark := color.GreenString("✓")
			if !ref.Set {
				mark = color.RedString("✗")
			}
			fmt.Fprintf(w, "%s %s (%s)\n", mark, ref.Var, ref.ServerID)
		}

		if len(refs.Missing) > 0 {
			fmt.Fprintf(w, "\n%d variable(s) missing:\n", len(refs.Missing))
			for _, v := range refs.Missing {
				fmt.Fprintf(w, "  export %s=...\n", v)
			}
		} else {
			fmt.Fprintln(w, color.GreenString("\n✓ All referenced variables are set"))
		}
	}

	if !result.Success {
		return errors.NewUserError(errors.New("missing environment variables"),
			"Export the listed variables before launching connectors")
	}
	return nil
}
