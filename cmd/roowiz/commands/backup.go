package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/filemanager"
	"github.com/rooforge/roowiz/internal/logging"
)

// Package-level flag variables for the backup subcommands.
var (
	backupListJSON   bool
	backupRestoreSrc string
	backupPruneKeep  int
)

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupRestoreCmd.Flags().StringVar(&backupRestoreSrc, "from", "",
		"restore from a specific backup file (default: newest)")
	backupPruneCmd.Flags().IntVar(&backupPruneKeep, "keep", 5,
		"number of backups to keep per document")

	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage document backups",
	Long: `Manage the timestamped backups taken before every document mutation.

Backups live alongside the documents (or in the configured backup
directory) and are named <file>.<timestamp>.bak, newest first.`,
	Example: `  # List backups for both documents
  roowiz backup list

  # Restore the server configuration from the newest backup
  roowiz backup restore config

  # Keep only the five newest backups per document
  roowiz backup prune --keep 5

  See Also: roowiz configure, roowiz remove`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// newFileManager builds a file manager honoring the configured backup dir.
func newFileManager(cmd *cobra.Command) *filemanager.Manager {
	opts := effectiveOptions()
	fmOpts := []filemanager.Option{
		filemanager.WithLogger(logging.FromContext(cmd.Context())),
	}
	if opts.BackupDir != "" {
		fmOpts = append(fmOpts, filemanager.WithBackupDir(opts.BackupDir))
	}
	return filemanager.NewManager(fmOpts...)
}

// documentPath resolves the "config" or "modes" document selector.
func documentPath(selector string) (string, error) {
	opts := effectiveOptions()
	switch selector {
	case "config":
		return opts.MCPConfigPath(), nil
	case "modes":
		return opts.ModesPath(), nil
	default:
		return "", errors.Newf("unknown document %q (valid: config, modes)", selector)
	}
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	RunE:  runBackupList,
}

// backupListOutput represents one document's backups in JSON output.
type backupListOutput struct {
	Document string   `json:"document"`
	Path     string   `json:"path"`
	Backups  []string `json:"backups"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	return runBackupListWithWriter(cmd, os.Stdout)
}

func runBackupListWithWriter(cmd *cobra.Command, w io.Writer) error {
	mgr := newFileManager(cmd)
	opts := effectiveOptions()

	docs := []backupListOutput{
		{Document: "config", Path: opts.MCPConfigPath()},
		{Document: "modes", Path: opts.ModesPath()},
	}
	for i := range docs {
		backups, err := mgr.FindBackups(docs[i].Path)
		if err != nil && !errors.Is(err, filemanager.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", docs[i].Document)
		}
		docs[i].Backups = backups
	}

	if backupListJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(docs), "encoding output")
	}

	total := 0
	for _, d := range docs {
		if len(d.Backups) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%s):\n", d.Document, d.Path)
		for _, b := range d.Backups {
			fmt.Fprintf(w, "  %s\n", b)
		}
		total += len(d.Backups)
	}
	if total == 0 {
		fmt.Fprintln(w, "No backups found.")
	}
	return nil
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <config|modes>",
	Short: "Restore a document from a backup",
	Long: `Restore a document from a backup.

Without --from the newest backup is used. The current document is
overwritten atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	return runBackupRestoreWithWriter(cmd, args[0], os.Stdout)
}

func runBackupRestoreWithWriter(cmd *cobra.Command, selector string, w io.Writer) error {
	target, err := documentPath(selector)
	if err != nil {
		return err
	}

	mgr := newFileManager(cmd)

	src := backupRestoreSrc
	if src == "" {
		backups, err := mgr.FindBackups(target)
		if err != nil {
			return err
		}
		src = backups[0]
	}

	if err := mgr.RestoreFromBackup(src, target); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Restored %s from %s\n", color.GreenString("✓"), target, src)
	return nil
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old backups",
	RunE:  runBackupPrune,
}

func runBackupPrune(cmd *cobra.Command, _ []string) error {
	return runBackupPruneWithWriter(cmd, os.Stdout)
}

func runBackupPruneWithWriter(cmd *cobra.Command, w io.Writer) error {
	if backupPruneKeep < 0 {
		return errors.New("--keep must be zero or positive")
	}

	mgr := newFileManager(cmd)
	opts := effectiveOptions()

	removed := 0
	for _, path := range []string{opts.MCPConfigPath(), opts.ModesPath()} {
		n, err := mgr.PruneBackups(path, backupPruneKeep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", path)
		}
		removed += n
	}

	fmt.Fprintf(w, "Removed %d backup(s), keeping the %d newest per document\n",
		removed, backupPruneKeep)
	return nil
}
