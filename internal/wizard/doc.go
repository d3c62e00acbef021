// Package wizard orchestrates connector configuration workflows over the
// registry client, config generator, file manager, and security auditor.
//
// Mutating workflows (configure, update, remove) are transactional at the
// document level: both managed documents are backed up before anything is
// touched, every subsequent failure restores the backups, and the result
// carries the backup paths so the caller keeps a recovery point even after
// success. Read-only workflows (list, validate, audit, env check) skip the
// backup machinery entirely.
//
// A Wizard carries every collaborator as an injected field. Construct one
// per invocation; it is not safe for concurrent use, matching the
// one-CLI-run-at-a-time model the documents themselves assume.
package wizard
