package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/mcpconfig/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project's connector documents",
	Long: `Validate .roo/mcp.json and .roomodes against the document rules.

Errors cover structural problems (missing commands, invalid ids,
malformed mode records). Warnings cover consistency issues such as
project-sourced modes without a matching connector, or modes missing
the mcp group.`,
	Example: `  # Validate the current project
  roowiz validate

  # Validate another project
  roowiz validate --project ~/src/myapp

  See Also: roowiz audit, roowiz list`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return runValidateWithWriter(cmd, os.Stdout)
}

func runValidateWithWriter(cmd *cobra.Command, w io.Writer) error {
	result, err := newWizard(cmd).Validate()
	if err != nil {
		return err
	}

	if validateJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "encoding output")
		}
	} else if len(result.Violations) == 0 {
		fmt.Fprintln(w, color.GreenString("✓ Validation passed"))
	} else {
		printViolations(w, result.Violations)
	}

	if !result.Success {
		return errors.NewConfigError(errors.New("validation failed"))
	}
	return nil
}

// printViolations writes a grouped, severity-colored violation report.
func printViolations(w io.Writer, violations []*validator.ValidationError) {
	errs := validator.Errors(violations)
	warns := validator.Warnings(violations)

	var summary []string
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warns) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warns)))
	}
	fmt.Fprintf(w, "Validation found: %s\n\n", strings.Join(summary, ", "))

	if len(errs) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, v := range errs {
			fmt.Fprintf(w, "  %s %s: %s\n", color.RedString("✗"), v.Property, v.Message)
		}
		fmt.Fprintln(w)
	}

	if len(warns) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, v := range warns {
			fmt.Fprintf(w, "  %s %s: %s\n", color.YellowString("!"), v.Property, v.Message)
		}
		fmt.Fprintln(w)
	}
}
