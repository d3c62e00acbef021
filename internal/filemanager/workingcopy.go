package filemanager

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// CreateTempWorkingCopy copies path to a temp file in the same directory and
// returns the copy's path. Edits against the copy leave the original
// untouched until CommitWorkingCopy.
func (m *Manager) CreateTempWorkingCopy(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "stat %s", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".work-*")
	if err != nil {
		return "", errors.Wrap(err, "creating working copy")
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrap(err, "closing working copy")
	}

	if _, _, err := copyFile(path, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrapf(err, "populating working copy for %s", path)
	}

	m.logger.Debug("created working copy", "path", path, "copy", tmpPath)
	return tmpPath, nil
}

// CommitWorkingCopy moves tempPath over target. With backup enabled the
// current target is backed up first and restored if the rename fails.
func (m *Manager) CommitWorkingCopy(tempPath, target string, backup bool) error {
	if _, err := os.Stat(tempPath); err != nil {
		return errors.Wrapf(err, "stat working copy %s", tempPath)
	}

	var backupPath string
	if backup {
		bp, err := m.CreateBackup(target)
		if err != nil {
			return errors.Wrap(err, "backing up target")
		}
		backupPath = bp
	}

	if err := os.Rename(tempPath, target); err != nil {
		if backupPath != "" {
			if rerr := m.RestoreFromBackup(backupPath, target); rerr != nil {
				return errors.CombineErrors(err, errors.Wrap(rerr, "restoring backup"))
			}
		}
		return errors.Wrapf(err, "committing working copy to %s", target)
	}

	m.logger.Debug("committed working copy", "target", target)
	return nil
}

// DiscardWorkingCopy removes an uncommitted working copy. A missing copy is
// not an error.
func (m *Manager) DiscardWorkingCopy(tempPath string) error {
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing working copy %s", tempPath)
	}
	return nil
}
