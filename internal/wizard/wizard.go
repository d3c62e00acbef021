package wizard

import (
	"context"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/rooforge/roowiz/internal/audit"
	"github.com/rooforge/roowiz/internal/config"
	roowizerrors "github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/filemanager"
	"github.com/rooforge/roowiz/internal/logging"
	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/mcpconfig/validator"
	"github.com/rooforge/roowiz/internal/registry"
)

// Wizard orchestrates connector configuration workflows. Collaborators are
// injected; zero options wire production defaults from the config.
type Wizard struct {
	opts      config.Options
	registry  *registry.Client
	files     *filemanager.Manager
	auditor   *audit.Auditor
	validator *validator.Validator
	logger    *slog.Logger

	state State
}

// Option overrides a Wizard collaborator.
type Option func(*Wizard)

// WithRegistryClient injects the catalog client.
func WithRegistryClient(c *registry.Client) Option {
	return func(w *Wizard) {
		if c != nil {
			w.registry = c
		}
	}
}

// WithFileManager injects the file manager.
func WithFileManager(m *filemanager.Manager) Option {
	return func(w *Wizard) {
		if m != nil {
			w.files = m
		}
	}
}

// WithAuditor injects the security auditor.
func WithAuditor(a *audit.Auditor) Option {
	return func(w *Wizard) {
		if a != nil {
			w.auditor = a
		}
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Wizard for the given options.
func New(opts config.Options, wopts ...Option) *Wizard {
	w := &Wizard{
		opts:      opts,
		validator: validator.New(),
		logger:    logging.NewDiscard(),
		state:     StateIdle,
	}
	for _, opt := range wopts {
		opt(w)
	}

	if w.files == nil {
		var fmOpts []filemanager.Option
		if opts.BackupDir != "" {
			fmOpts = append(fmOpts, filemanager.WithBackupDir(opts.BackupDir))
		}
		fmOpts = append(fmOpts, filemanager.WithLogger(w.logger))
		w.files = filemanager.NewManager(fmOpts...)
	}
	if w.auditor == nil {
		w.auditor = audit.New(audit.WithLogger(w.logger))
	}
	if w.registry == nil {
		w.registry = registry.New(registry.Options{
			BaseURL:       opts.RegistryURL,
			Token:         opts.RegistryToken,
			Timeout:       opts.RequestTimeout,
			RetryAttempts: opts.RetryAttempts,
			RetryDelay:    opts.RetryDelay,
			CacheEnabled:  opts.CacheEnabled,
			Logger:        w.logger,
		})
	}
	return w
}

// State reports where the last workflow invocation ended up.
func (w *Wizard) State() State {
	return w.state
}

// ConfigureServer runs the canonical transactional workflow: back up both
// documents, fetch metadata, generate and merge records, write both
// documents, then re-read and validate. Any failure after the backups
// restores both documents before returning.
func (w *Wizard) ConfigureServer(ctx context.Context, id string, params mcpconfig.Params) (*ConfigureResult, error) {
	w.state = StateInitialized
	result := &ConfigureResult{ServerID: id}

	if !mcpconfig.ValidID(id) {
		w.state = StateFailed
		return result, errors.Wrapf(roowizerrors.ErrInvalidConnectorID, "%q", id)
	}

	backups, err := w.backupDocuments()
	if err != nil {
		// Nothing was mutated, so there is nothing to roll back.
		w.state = StateFailed
		return result, errors.Wrap(err, "backing up documents")
	}
	result.Backups = backups

	w.state = StateDiscovering
	meta, err := w.registry.GetServerDetails(ctx, id)
	if err != nil {
		w.state = StateFailed
		return result, errors.Wrapf(err, "fetching metadata for %s", id)
	}

	w.state = StateConfiguring
	if err := w.applyConnector(meta, params); err != nil {
		w.rollback(backups)
		w.state = StateFailed
		return result, err
	}

	w.state = StateValidating
	doc, modes, violations, err := w.revalidate()
	if err != nil {
		w.rollback(backups)
		w.state = StateFailed
		return result, err
	}
	if validator.HasErrors(violations) {
		w.rollback(backups)
		w.state = StateFailed
		result.Violations = violations
		return result, errors.Wrap(roowizerrors.ErrInvalidConfig, "generated document failed validation")
	}

	w.state = StateDone
	result.Success = true
	result.Document = doc
	result.Modes = modes
	w.logger.Info("connector configured", "id", id)
	return result, nil
}

// UpdateServer regenerates the record for an already-configured connector.
// The id must exist locally; unknown ids fail with ErrNotFound before any
// mutation.
func (w *Wizard) UpdateServer(ctx context.Context, id string, params mcpconfig.Params) (*ConfigureResult, error) {
	w.state = StateInitialized
	result := &ConfigureResult{ServerID: id}

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		w.state = StateFailed
		return result, err
	}
	if _, ok := doc.MCPServers[id]; !ok {
		w.state = StateFailed
		return result, errors.Wrapf(roowizerrors.ErrNotFound, "%q is not configured", id)
	}

	backups, err := w.backupDocuments()
	if err != nil {
		w.state = StateFailed
		return result, errors.Wrap(err, "backing up documents")
	}
	result.Backups = backups

	w.state = StateDiscovering
	meta, err := w.registry.GetServerDetails(ctx, id)
	if err != nil {
		w.state = StateFailed
		return result, errors.Wrapf(err, "fetching metadata for %s", id)
	}

	w.state = StateUpdating
	if err := w.applyConnector(meta, params); err != nil {
		w.rollback(backups)
		w.state = StateFailed
		return result, err
	}

	w.state = StateValidating
	newDoc, modes, violations, err := w.revalidate()
	if err != nil {
		w.rollback(backups)
		w.state = StateFailed
		return result, err
	}
	if validator.HasErrors(violations) {
		w.rollback(backups)
		w.state = StateFailed
		result.Violations = violations
		return result, errors.Wrap(roowizerrors.ErrInvalidConfig, "updated document failed validation")
	}

	w.state = StateDone
	result.Success = true
	result.Document = newDoc
	result.Modes = modes
	w.logger.Info("connector updated", "id", id)
	return result, nil
}

// RemoveServer deletes a connector's record and its paired mcp-<id> mode.
// Unknown ids fail with ErrNotFound before any mutation.
func (w *Wizard) RemoveServer(id string) (*RemoveResult, error) {
	w.state = StateInitialized
	result := &RemoveResult{ServerID: id}

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		w.state = StateFailed
		return result, err
	}
	if _, ok := doc.MCPServers[id]; !ok {
		w.state = StateFailed
		return result, errors.Wrapf(roowizerrors.ErrNotFound, "%q is not configured", id)
	}

	modes, err := mcpconfig.ReadModes(w.opts.ModesPath())
	if err != nil {
		w.state = StateFailed
		return result, err
	}

	backups, err := w.backupDocuments()
	if err != nil {
		w.state = StateFailed
		return result, errors.Wrap(err, "backing up documents")
	}
	result.Backups = backups

	w.state = StateRemoving
	delete(doc.MCPServers, id)

	slug := mcpconfig.ModeSlug(id)
	if _, idx := modes.Find(slug); idx >= 0 {
		modes.CustomModes = append(modes.CustomModes[:idx], modes.CustomModes[idx+1:]...)
		result.RemovedMode = slug
	}

	if err := w.writeDocuments(doc, modes); err != nil {
		w.rollback(backups)
		w.state = StateFailed
		return result, err
	}

	w.state = StateValidating
	if _, _, violations, err := w.revalidate(); err != nil || validator.HasErrors(violations) {
		w.rollback(backups)
		w.state = StateFailed
		if err == nil {
			err = errors.Wrap(roowizerrors.ErrInvalidConfig, "document failed validation after removal")
		}
		return result, err
	}

	w.state = StateDone
	result.Success = true
	w.logger.Info("connector removed", "id", id, "mode", result.RemovedMode)
	return result, nil
}

// applyConnector generates records for one connector, merges them into the
// current documents, and writes both.
func (w *Wizard) applyConnector(meta *registry.ConnectorMetadata, params mcpconfig.Params) error {
	rec, err := mcpconfig.GenerateServerConfig(meta, params)
	if err != nil {
		return errors.Wrap(err, "generating server config")
	}
	mode, err := mcpconfig.GenerateModeRecord(meta)
	if err != nil {
		return errors.Wrap(err, "generating mode record")
	}

	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		return err
	}
	modes, err := mcpconfig.ReadModes(w.opts.ModesPath())
	if err != nil {
		return err
	}

	incoming := mcpconfig.NewDocument()
	incoming.MCPServers[meta.ID] = rec

	merged := mcpconfig.MergeDocuments(incoming, doc)
	mergedModes := mcpconfig.MergeModes([]mcpconfig.ModeRecord{mode}, modes)

	return w.writeDocuments(merged, mergedModes)
}

// writeDocuments persists both documents. Workflow-level backups were taken
// before any mutation, so the per-write backup is skipped.
func (w *Wizard) writeDocuments(doc *mcpconfig.Document, modes *mcpconfig.ModesDocument) error {
	if err := w.files.SafeWriteConfig(w.opts.MCPConfigPath(), doc, filemanager.WithBackup(false)); err != nil {
		return errors.Wrap(err, "writing server configuration")
	}
	if err := w.files.SafeWriteConfig(w.opts.ModesPath(), modes, filemanager.WithBackup(false)); err != nil {
		return errors.Wrap(err, "writing mode registry")
	}
	if hash, err := audit.IntegrityHash(doc); err == nil {
		w.logger.Debug("documents written", "config_hash", hash)
	}
	return nil
}

// revalidate re-reads both documents from disk and validates them, proving
// the persisted state, not the in-memory one, is sound.
func (w *Wizard) revalidate() (*mcpconfig.Document, *mcpconfig.ModesDocument, []*validator.ValidationError, error) {
	doc, err := mcpconfig.ReadDocument(w.opts.MCPConfigPath())
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "re-reading server configuration")
	}
	modes, err := mcpconfig.ReadModes(w.opts.ModesPath())
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "re-reading mode registry")
	}

	violations := w.validator.Validate(doc)
	violations = append(violations, w.validator.ValidateModes(modes, doc)...)
	return doc, modes, violations, nil
}

// backupDocuments backs up both documents. Missing documents yield empty
// backup paths, which rollback interprets as delete-on-restore.
func (w *Wizard) backupDocuments() (BackupPair, error) {
	var pair BackupPair

	cfg, err := w.files.CreateBackup(w.opts.MCPConfigPath())
	if err != nil {
		return pair, err
	}
	pair.Config = cfg

	modes, err := w.files.CreateBackup(w.opts.ModesPath())
	if err != nil {
		return pair, err
	}
	pair.Modes = modes

	return pair, nil
}

// rollback restores both documents to their pre-workflow state. A document
// that did not exist before the workflow is removed again.
func (w *Wizard) rollback(backups BackupPair) {
	w.restoreOne(backups.Config, w.opts.MCPConfigPath())
	w.restoreOne(backups.Modes, w.opts.ModesPath())
}

func (w *Wizard) restoreOne(backupPath, target string) {
	if backupPath == "" {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			w.logger.Error("rollback could not remove created file", "target", target, "error", err)
		}
		return
	}
	if err := w.files.RestoreFromBackup(backupPath, target); err != nil {
		w.logger.Error("rollback failed", "target", target, "backup", backupPath, "error", err)
	}
}
