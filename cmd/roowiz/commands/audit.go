package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/audit"
	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/wizard"
)

var (
	auditFix  bool
	auditJSON bool
)

func init() {
	auditCmd.Flags().BoolVar(&auditFix, "fix", false,
		"rewrite literal secrets to ${env:VAR} placeholders")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit the connector configuration for security issues",
	Long: `Audit .roo/mcp.json for security issues.

Critical issues are secret-looking literals (tokens, API keys, UUID
keys) stored in args or env instead of ${env:VAR} placeholders.
Warnings flag high-risk alwaysAllow permissions such as admin, delete,
or wildcards. Informational findings include unpinned @latest package
versions.

With --fix, detected literals are rewritten to placeholders and the
document is persisted; the replaced environment variable names are
printed so the values can be exported.`,
	Example: `  # Audit the current project
  roowiz audit

  # Audit and rewrite literal secrets
  roowiz audit --fix

  See Also: roowiz validate, roowiz envcheck`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, _ []string) error {
	return runAuditWithWriter(cmd, os.Stdout)
}

func runAuditWithWriter(cmd *cobra.Command, w io.Writer) error {
	opts := effectiveOptions()
	fix := auditFix || opts.AutoFix

	result, err := newWizard(cmd).AuditSecurity(fix)
	if err != nil {
		return err
	}

	if auditJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return errors.Wrap(err, "encoding output")
		}
	} else {
		printAuditReport(w, result)
	}

	if !result.Success {
		return errors.NewUserError(errors.New("critical security issues found"),
			"Run: roowiz audit --fix")
	}
	return nil
}

func printAuditReport(w io.Writer, result *wizard.AuditResult) {
	report := result.Report

	if !report.HasIssues() {
		fmt.Fprintln(w, color.GreenString("✓ No security issues found"))
		return
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(w, "%s [%s] %s: %s\n",
			severityBadge(issue.Severity), issue.ServerID, issue.Location, issue.Message)
		if issue.Recommendation != "" {
			fmt.Fprintf(w, "    %s\n", color.New(color.Faint).Sprint(issue.Recommendation))
		}
	}

	fmt.Fprintf(w, "\n%d critical, %d warning(s), %d informational\n",
		report.Summary.Critical, report.Summary.Warnings, report.Summary.Info)

	if result.Fixed {
		fmt.Fprintf(w, "\n%s Rewrote %d literal secret(s) to placeholders:\n",
			color.GreenString("✓"), len(result.Fixes))
		for _, f := range result.Fixes {
			fmt.Fprintf(w, "  export %s=<value for %s>\n", f.EnvVar, f.ServerID)
		}
	}
}

func severityBadge(s audit.Severity) string {
	switch s {
	case audit.SeverityCritical:
		return color.RedString("CRIT")
	case audit.SeverityWarning:
		return color.YellowString("WARN")
	default:
		return color.CyanString("INFO")
	}
}
