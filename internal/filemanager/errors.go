package filemanager

import "errors"

// Sentinel errors for file-manager operations.
var (
	// ErrNoBackupsFound indicates no backups exist for a file.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates every candidate backup failed to parse
	// during recovery.
	ErrBackupCorrupted = errors.New("backup is corrupted")

	// ErrUnknownStrategy indicates an unrecognized merge strategy.
	ErrUnknownStrategy = errors.New("unknown merge strategy")
)
