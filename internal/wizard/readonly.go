package wizard

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/mcpconfig/validator"
)

// ListConfiguredServers returns every configured connector with its paired
// mode, in id order.
func (w *Wizard) ListConfiguredServers() (*ListResult, error) {
	w.state = StateListing

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		w.state = StateFailed
		return &ListResult{}, err
	}
	modes, err := mcpconfig.ReadModes(w.opts.ModesPath())
	if err != nil {
		w.state = StateFailed
		return &ListResult{}, err
	}

	ids := make([]string, 0, len(doc.MCPServers))
	for id := range doc.MCPServers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &ListResult{Success: true, Servers: make([]ConfiguredServer, 0, len(ids))}
	for _, id := range ids {
		rec := doc.MCPServers[id]
		server := ConfiguredServer{
			ID:          id,
			Command:     rec.Command,
			Args:        rec.Args,
			AlwaysAllow: rec.AlwaysAllow,
		}
		if mode, idx := modes.Find(mcpconfig.ModeSlug(id)); idx >= 0 {
			server.ModeSlug = mode.Slug
			server.ModeName = mode.Name
		}
		result.Servers = append(result.Servers, server)
	}

	w.state = StateDone
	return result, nil
}

// Validate checks both documents without mutating anything.
func (w *Wizard) Validate() (*ValidateResult, error) {
	w.state = StateValidating

	_, _, violations, err := w.revalidate()
	if err != nil {
		w.state = StateFailed
		return &ValidateResult{}, err
	}

	w.state = StateDone
	return &ValidateResult{
		Success:    !validator.HasErrors(violations),
		Violations: violations,
	}, nil
}

// AuditSecurity runs the security heuristics. With autoFix the rewritten
// document is persisted through the file manager; the rewrite is trusted
// as-is, no validation pass runs between fix and write.
func (w *Wizard) AuditSecurity(autoFix bool) (*AuditResult, error) {
	w.state = StateAuditing

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		w.state = StateFailed
		return &AuditResult{}, err
	}

	report := w.auditor.AuditConfiguration(doc)
	result := &AuditResult{Report: report}

	if autoFix && report.HasCritical() {
		fixed, fixes := w.auditor.Secure(doc)
		if len(fixes) > 0 {
			if err := w.files.SafeWriteConfig(w.opts.MCPConfigPath(), fixed); err != nil {
				w.state = StateFailed
				return result, errors.Wrap(err, "persisting secured configuration")
			}
			result.Fixes = fixes
			result.Fixed = true
			w.logger.Info("persisted secured configuration", "fixes", len(fixes))
		}
	}

	w.state = StateDone
	result.Success = !report.HasCritical() || result.Fixed
	return result, nil
}

// ValidateEnvVars checks that every ${env:NAME} reference in the server
// configuration resolves in the current environment.
func (w *Wizard) ValidateEnvVars() (*EnvCheckResult, error) {
	w.state = StateValidating

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		w.state = StateFailed
		return &EnvCheckResult{}, err
	}

	refs := w.auditor.ValidateEnvRefs(doc)
	w.state = StateDone
	return &EnvCheckResult{Success: refs.Valid, Refs: refs}, nil
}
