package filemanager

import (
	"crypto/sha256"
	"encoding/json"
	"hash"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rooforge/roowiz/internal/logging"
	"github.com/rooforge/roowiz/pkg/fileutil"
)

// BackupSuffix terminates every backup file name.
const BackupSuffix = ".bak"

// Manager handles transactional reads and writes of configuration files.
type Manager struct {
	// backupDir overrides where backups are placed. Empty means alongside
	// the original file.
	backupDir string

	newHash func() hash.Hash
	logger  *slog.Logger

	// now is injectable for deterministic backup names in tests.
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir places backups in dir instead of next to the original file.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.backupDir = dir
	}
}

// WithHash sets the hash constructor used for integrity checks.
// Default is SHA-256.
func WithHash(newHash func() hash.Hash) Option {
	return func(m *Manager) {
		if newHash != nil {
			m.newHash = newHash
		}
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new file Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		newHash: sha256.New,
		logger:  logging.NewDiscard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SafeReadConfig reads and parses a JSON file into v. When the live file is
// corrupt it falls back to the newest parseable backup; the original parse
// error propagates if no backup can serve.
func (m *Manager) SafeReadConfig(path string, v any) error {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	parseErr := json.Unmarshal(data, v)
	if parseErr == nil {
		return nil
	}

	m.logger.Warn("config file corrupt, attempting backup recovery",
		"path", path, "error", parseErr)

	backups, err := m.FindBackups(path)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return errors.Wrapf(parseErr, "parsing %s (no backups to recover from)", path)
		}
		return err
	}

	for _, backup := range backups {
		data, err := fileutil.ReadFileWithLimit(backup)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, v); err != nil {
			m.logger.Warn("backup also corrupt, trying older one", "backup", backup)
			continue
		}
		m.logger.Info("recovered config from backup", "path", path, "backup", backup)
		return nil
	}

	return errors.Mark(errors.Wrapf(parseErr, "parsing %s (all backups corrupt)", path), ErrBackupCorrupted)
}

// WriteOption configures a single write operation.
type WriteOption func(*writeOptions)

type writeOptions struct {
	backup bool
}

// WithBackup controls whether the existing file is backed up before the
// write. Default is true.
func WithBackup(backup bool) WriteOption {
	return func(o *writeOptions) {
		o.backup = backup
	}
}

// SafeWriteConfig writes v as pretty JSON to path. The existing file is
// backed up first, and restored if the write fails, so the target is never
// left in a partial state.
func (m *Manager) SafeWriteConfig(path string, v any, opts ...WriteOption) error {
	wo := writeOptions{backup: true}
	for _, opt := range opts {
		opt(&wo)
	}

	var backupPath string
	if wo.backup {
		bp, err := m.CreateBackup(path)
		if err != nil {
			return errors.Wrap(err, "creating backup")
		}
		backupPath = bp
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	if err := fileutil.AtomicWriteJSON(path, v); err != nil {
		if backupPath != "" {
			if rerr := m.RestoreFromBackup(backupPath, path); rerr != nil {
				return errors.CombineErrors(err, errors.Wrap(rerr, "restoring backup"))
			}
			m.logger.Warn("write failed, restored previous content",
				"path", path, "backup", backupPath)
		}
		return errors.Wrapf(err, "writing %s", path)
	}

	return nil
}

// CreateBackup copies path to a timestamped sibling and returns the backup
// path. A missing source is not an error; it returns an empty path, since
// there is nothing to preserve.
func (m *Manager) CreateBackup(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "stat %s", path)
	}

	backupPath := m.backupName(path)
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return "", errors.Wrap(err, "creating backup directory")
	}
	if _, _, err := copyFile(path, backupPath); err != nil {
		return "", errors.Wrapf(err, "copying %s", path)
	}

	m.logger.Debug("created backup", "path", path, "backup", backupPath)
	return backupPath, nil
}

// backupName builds {file}.{timestamp}.bak with the timestamp's ':' and '.'
// replaced by '-' so names sort lexicographically by age.
func (m *Manager) backupName(path string) string {
	ts := m.now().UTC().Format(time.RFC3339)
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)

	name := filepath.Base(path) + "." + ts + BackupSuffix
	if m.backupDir != "" {
		return filepath.Join(m.backupDir, name)
	}
	return filepath.Join(filepath.Dir(path), name)
}

// FindBackups returns the backups for path, newest first. Timestamped
// backups sort before a plain {file}.bak, which is recognized as a legacy
// fallback.
func (m *Manager) FindBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	if m.backupDir != "" {
		dir = m.backupDir
	}
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var timestamped []string
	var plain []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == base+BackupSuffix {
			plain = append(plain, filepath.Join(dir, name))
			continue
		}
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, BackupSuffix) {
			timestamped = append(timestamped, filepath.Join(dir, name))
		}
	}

	// Timestamps sort lexicographically; descending means newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(timestamped)))
	backups := append(timestamped, plain...)

	if len(backups) == 0 {
		return nil, ErrNoBackupsFound
	}
	return backups, nil
}

// RestoreFromBackup copies backupPath over targetPath.
func (m *Manager) RestoreFromBackup(backupPath, targetPath string) error {
	if backupPath == "" {
		return errors.New("backup path is required")
	}
	if _, err := os.Stat(backupPath); err != nil {
		return errors.Wrapf(err, "stat backup %s", backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return errors.Wrap(err, "creating target directory")
	}
	if _, _, err := copyFile(backupPath, targetPath); err != nil {
		return errors.Wrapf(err, "restoring %s", targetPath)
	}

	m.logger.Info("restored from backup", "target", targetPath, "backup", backupPath)
	return nil
}

// PruneBackups removes backups of path beyond the most recent keep.
func (m *Manager) PruneBackups(path string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	backups, err := m.FindBackups(path)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i]); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", backups[i])
		}
		removed++
	}
	return removed, nil
}
