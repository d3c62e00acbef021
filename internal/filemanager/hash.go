package filemanager

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"

	roowizerrors "github.com/rooforge/roowiz/internal/errors"
)

// CalculateFileHash streams the file through the configured hash and returns
// the hex digest. The file is never loaded into memory whole.
func (m *Manager) CalculateFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	h := m.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFileIntegrity compares the file's current hash against expected.
// A mismatch returns an error matching roowizerrors.ErrIntegrity.
func (m *Manager) VerifyFileIntegrity(path, expected string) error {
	actual, err := m.CalculateFileHash(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return errors.Wrapf(roowizerrors.ErrIntegrity,
			"%s: hash %s does not match expected %s", path, actual, expected)
	}
	return nil
}

// copyFile copies src to dst, returning the SHA-256 hash and source mode.
// The destination is created 0644 then chmodded to match the source.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
