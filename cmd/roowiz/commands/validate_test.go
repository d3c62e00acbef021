package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

func TestRunValidate_Passes(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")
	writeTestDocuments(t, dir)

	origJSON := validateJSON
	defer func() { validateJSON = origJSON }()
	validateJSON = false

	var buf bytes.Buffer
	if err := runValidateWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Validation passed") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunValidate_ReportsErrors(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")

	doc := mcpconfig.NewDocument()
	doc.MCPServers["broken"] = &mcpconfig.ServerConfig{Command: "", Args: []string{}}
	if err := mcpconfig.WriteDocument(doc, filepath.Join(dir, ".roo", "mcp.json")); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	origJSON := validateJSON
	defer func() { validateJSON = origJSON }()
	validateJSON = false

	var buf bytes.Buffer
	err := runValidateWithWriter(testCommand(t), &buf)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	out := buf.String()
	if !strings.Contains(out, "error(s)") {
		t.Errorf("output missing error summary: %q", out)
	}
	if !strings.Contains(out, "mcpServers.broken.command") {
		t.Errorf("output missing violation property: %q", out)
	}
}
