package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

func TestRunRemove(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")
	writeTestDocuments(t, dir)

	var buf bytes.Buffer
	if err := runRemoveWithWriter(testCommand(t), "github", &buf); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Removed") || !strings.Contains(out, "github") {
		t.Errorf("output missing confirmation: %q", out)
	}
	if !strings.Contains(out, "mcp-github") {
		t.Errorf("output should mention the removed mode: %q", out)
	}

	doc, err := mcpconfig.ReadDocument(filepath.Join(dir, ".roo", "mcp.json"))
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	if _, ok := doc.MCPServers["github"]; ok {
		t.Error("connector record should be gone")
	}

	modes, err := mcpconfig.ReadModes(filepath.Join(dir, ".roomodes"))
	if err != nil {
		t.Fatalf("reading modes: %v", err)
	}
	if _, i := modes.Find("mcp-github"); i >= 0 {
		t.Error("paired mode should be gone")
	}
}

func TestRunRemove_NotConfigured(t *testing.T) {
	setupTestProject(t, "http://unused.invalid")

	var buf bytes.Buffer
	if err := runRemoveWithWriter(testCommand(t), "missing", &buf); err == nil {
		t.Fatal("expected error removing an unconfigured connector")
	}
}
