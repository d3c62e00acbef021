// Package filemanager provides transactional file operations for the
// configuration documents roowiz manages.
//
// Every mutation follows backup-before-write: the current file is copied to
// a timestamped .bak sibling before it is touched, and restored if the write
// fails. Reads recover from the newest parseable backup when the live file
// is corrupt. Atomicity of the write itself comes from the temp-and-rename
// strategy in pkg/fileutil.
//
// Backup names embed an ISO 8601 UTC timestamp with ':' and '.' replaced by
// '-' so they sort lexicographically by age:
//
//	mcp.json.2026-08-30T12-41-09Z.bak
//
// The package is document-agnostic: callers pass any JSON-marshalable value.
package filemanager
