package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

// validSources is the set of recognized mode source values.
var validSources = []string{
	mcpconfig.SourceProject,
	mcpconfig.SourceUser,
	mcpconfig.SourceSystem,
	mcpconfig.SourceGlobal,
}

// Option configures a Validator.
type Option func(*Validator)

// Validator validates server-configuration documents and mode registries.
// Violations are collected, not short-circuited: a single pass reports every
// issue in the document.
type Validator struct {
	// requirePairing makes an mcp-prefixed mode without a matching server
	// record an error instead of a warning. Default is false.
	requirePairing bool
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithRequirePairing configures whether an mcp-prefixed mode slug with no
// matching server record is an error. Default is false (warning).
func WithRequirePairing(require bool) Option {
	return func(v *Validator) {
		v.requirePairing = require
	}
}

// Validate checks a server-configuration document for issues.
// Returns a slice of validation errors/warnings, or nil if valid.
// Use [HasErrors] to check if any errors (vs warnings) were found.
func (v *Validator) Validate(doc *mcpconfig.Document) []*ValidationError {
	if doc == nil {
		return []*ValidationError{{
			Message:  "document is nil",
			Severity: SeverityError,
			Err:      ErrNilDocument,
		}}
	}

	var errs []*ValidationError
	for id, rec := range doc.MCPServers {
		errs = append(errs, v.ValidateRecord(id, rec)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRecord validates one server record under its connector id.
func (v *Validator) ValidateRecord(id string, rec *mcpconfig.ServerConfig) []*ValidationError {
	var errs []*ValidationError

	prop := "mcpServers." + id

	if !mcpconfig.ValidID(id) {
		errs = append(errs, &ValidationError{
			Property: prop,
			Message:  "connector id must contain only letters, digits, hyphens, and underscores",
			Value:    id,
			Severity: SeverityError,
			Err:      ErrInvalidConnectorID,
		})
	}

	if rec == nil {
		errs = append(errs, &ValidationError{
			Property: prop,
			Message:  "server record is null",
			Severity: SeverityError,
		})
		return errs
	}

	if rec.Command == "" {
		errs = append(errs, &ValidationError{
			Property: prop + ".command",
			Message:  "command is required",
			Severity: SeverityError,
			Err:      ErrMissingCommand,
		})
	}

	if rec.Args == nil {
		errs = append(errs, &ValidationError{
			Property: prop + ".args",
			Message:  "args must be present (use an empty array for no arguments)",
			Severity: SeverityError,
			Err:      ErrNilArgs,
		})
	}

	if rec.AlwaysAllow == nil {
		errs = append(errs, &ValidationError{
			Property: prop + ".alwaysAllow",
			Message:  "alwaysAllow must be present (use an empty array for no grants)",
			Severity: SeverityError,
			Err:      ErrNilAlwaysAllow,
		})
	}

	for key := range rec.Env {
		if key == "" {
			errs = append(errs, &ValidationError{
				Property: prop + ".env",
				Message:  "environment variable key cannot be empty",
				Severity: SeverityError,
				Err:      ErrEmptyEnvKey,
			})
			break // Only report once
		}
	}

	return errs
}

// ValidateModes checks a mode registry for issues. When doc is non-nil,
// mcp-prefixed modes are also checked against it for a matching server
// record.
func (v *Validator) ValidateModes(modes *mcpconfig.ModesDocument, doc *mcpconfig.Document) []*ValidationError {
	if modes == nil {
		return []*ValidationError{{
			Message:  "mode registry is nil",
			Severity: SeverityError,
			Err:      ErrNilDocument,
		}}
	}

	var errs []*ValidationError
	for i := range modes.CustomModes {
		rec := &modes.CustomModes[i]
		errs = append(errs, v.ValidateModeRecord(i, rec)...)

		// Pairing only applies to generated project modes.
		if doc == nil || rec.Source != mcpconfig.SourceProject {
			continue
		}
		id, ok := strings.CutPrefix(rec.Slug, mcpconfig.ModeSlugPrefix)
		if !ok {
			continue
		}
		if _, found := doc.MCPServers[id]; !found {
			sev := SeverityWarning
			if v.requirePairing {
				sev = SeverityError
			}
			errs = append(errs, &ValidationError{
				Property: fmt.Sprintf("customModes[%d].slug", i),
				Message:  "no server record found for mode",
				Value:    rec.Slug,
				Severity: sev,
				Err:      ErrUnpairedMode,
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateModeRecord validates a single mode record at index i.
func (v *Validator) ValidateModeRecord(i int, rec *mcpconfig.ModeRecord) []*ValidationError {
	var errs []*ValidationError

	prop := fmt.Sprintf("customModes[%d]", i)

	if !strings.HasPrefix(rec.Slug, mcpconfig.ModeSlugPrefix) {
		errs = append(errs, &ValidationError{
			Property: prop + ".slug",
			Message:  "slug must start with " + mcpconfig.ModeSlugPrefix,
			Value:    rec.Slug,
			Severity: SeverityError,
			Err:      ErrInvalidSlug,
		})
	}

	if rec.Name == "" {
		errs = append(errs, &ValidationError{
			Property: prop + ".name",
			Message:  "name is required",
			Severity: SeverityError,
			Err:      ErrMissingModeName,
		})
	}

	if rec.RoleDefinition == "" {
		errs = append(errs, &ValidationError{
			Property: prop + ".roleDefinition",
			Message:  "role definition is required",
			Severity: SeverityError,
			Err:      ErrMissingRoleDefinition,
		})
	}

	if !rec.HasGroup("mcp") {
		errs = append(errs, &ValidationError{
			Property: prop + ".groups",
			Message:  "groups must include \"mcp\" for the connector tools to be usable",
			Severity: SeverityWarning,
			Err:      ErrMissingMCPGroup,
		})
	}

	if !slices.Contains(validSources, rec.Source) {
		errs = append(errs, &ValidationError{
			Property: prop + ".source",
			Message:  "source must be 'project', 'user', 'system', or 'global'",
			Value:    rec.Source,
			Severity: SeverityError,
			Err:      ErrInvalidSource,
		})
	}

	return errs
}
