package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/wizard"
)

// parseKeyValueSlice parses KEY=VALUE pairs from a repeatable flag.
func parseKeyValueSlice(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s value %q: expected KEY=VALUE", flagName, pair)
		}
		out[key] = value
	}
	return out, nil
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// printBackups reports the pre-mutation recovery points, if any were taken.
func printBackups(w io.Writer, backups wizard.BackupPair) {
	if backups.Config != "" {
		fmt.Fprintf(w, "Backup: %s\n", backups.Config)
	}
	if backups.Modes != "" {
		fmt.Fprintf(w, "Backup: %s\n", backups.Modes)
	}
}
