package mcpconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/rooforge/roowiz/internal/paths"
	"github.com/rooforge/roowiz/pkg/fileutil"
)

// ReadDocument loads a server-configuration document.
// A missing file yields an empty, valid document rather than an error.
func ReadDocument(path string) (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if doc.MCPServers == nil {
		doc.MCPServers = make(map[string]*ServerConfig)
	}
	return &doc, nil
}

// WriteDocument persists a server-configuration document as pretty JSON,
// creating the parent directory if needed.
func WriteDocument(doc *Document, path string) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return fileutil.AtomicWriteJSON(path, doc)
}

// ReadModes loads a mode-registry document.
// A missing file yields an empty, valid document rather than an error.
func ReadModes(path string) (*ModesDocument, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewModesDocument(), nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var doc ModesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if doc.CustomModes == nil {
		doc.CustomModes = []ModeRecord{}
	}
	return &doc, nil
}

// WriteModes persists a mode-registry document as pretty JSON, creating the
// parent directory if needed.
func WriteModes(doc *ModesDocument, path string) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating registry directory")
	}
	return fileutil.AtomicWriteJSON(path, doc)
}
