package wizard

import (
	"github.com/rooforge/roowiz/internal/audit"
	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/mcpconfig/validator"
)

// BackupPair holds the pre-mutation backup paths for both documents.
// Empty entries mean the document did not exist before the workflow.
type BackupPair struct {
	Config string `json:"config,omitempty"`
	Modes  string `json:"modes,omitempty"`
}

// ConfigureResult is the outcome of ConfigureServer and UpdateServer.
type ConfigureResult struct {
	Success  bool   `json:"success"`
	ServerID string `json:"serverId"`

	// Document and Modes are the state after the workflow.
	Document *mcpconfig.Document      `json:"document,omitempty"`
	Modes    *mcpconfig.ModesDocument `json:"modes,omitempty"`

	// Backups are the pre-mutation recovery points, kept even on success.
	Backups BackupPair `json:"backups"`

	// Violations is populated when validation caused the failure.
	Violations []*validator.ValidationError `json:"violations,omitempty"`
}

// RemoveResult is the outcome of RemoveServer.
type RemoveResult struct {
	Success  bool   `json:"success"`
	ServerID string `json:"serverId"`

	// RemovedMode is the slug of the paired mode record that was removed,
	// empty when no paired mode existed.
	RemovedMode string `json:"removedMode,omitempty"`

	Backups BackupPair `json:"backups"`
}

// ConfiguredServer is one configured connector in a list result.
type ConfiguredServer struct {
	ID          string   `json:"id"`
	Command     string   `json:"command"`
	Args        []string `json:"args"`
	AlwaysAllow []string `json:"alwaysAllow"`

	// ModeSlug and ModeName describe the paired mode, empty when unpaired.
	ModeSlug string `json:"modeSlug,omitempty"`
	ModeName string `json:"modeName,omitempty"`
}

// ListResult is the outcome of ListConfiguredServers.
type ListResult struct {
	Success bool               `json:"success"`
	Servers []ConfiguredServer `json:"servers"`
}

// ValidateResult is the outcome of Validate.
type ValidateResult struct {
	Success    bool                         `json:"success"`
	Violations []*validator.ValidationError `json:"violations,omitempty"`
}

// AuditResult is the outcome of AuditSecurity.
type AuditResult struct {
	Success bool          `json:"success"`
	Report  *audit.Report `json:"report"`

	// Fixes lists the rewrites applied when auto-fix ran.
	Fixes []audit.Fix `json:"fixes,omitempty"`

	// Fixed is true when a rewritten document was persisted.
	Fixed bool `json:"fixed,omitempty"`
}

// EnvCheckResult is the outcome of ValidateEnvVars.
type EnvCheckResult struct {
	Success bool                `json:"success"`
	Refs    *audit.EnvRefResult `json:"refs"`
}
