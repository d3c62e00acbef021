package mcpconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadDocument_MissingFile(t *testing.T) {
	doc, err := ReadDocument(filepath.Join(t.TempDir(), ".roo", "mcp.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if doc == nil || doc.MCPServers == nil {
		t.Fatal("missing file should yield empty valid document")
	}
	if len(doc.MCPServers) != 0 {
		t.Errorf("expected empty document, got %d servers", len(doc.MCPServers))
	}
}

func TestReadDocument_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDocument(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteDocument_ReadDocument_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".roo", "mcp.json")

	doc := NewDocument()
	doc.MCPServers["github"] = &ServerConfig{
		Command:     "npx",
		Args:        []string{"-y", "@github/mcp-server@latest", "--token", "${env:GITHUB_TOKEN}"},
		AlwaysAllow: []string{"read", "write"},
		Env:         map[string]string{"LOG_LEVEL": "debug"},
	}

	if err := WriteDocument(doc, path); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	// Parent directory is created on demand.
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}

	got, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	rec := got.MCPServers["github"]
	if rec == nil {
		t.Fatal("record lost in round trip")
	}
	if rec.Command != "npx" || len(rec.Args) != 4 || rec.Env["LOG_LEVEL"] != "debug" {
		t.Errorf("round trip mismatch: %+v", rec)
	}
}

func TestWriteDocument_PrettyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	doc := NewDocument()
	doc.MCPServers["svc"] = &ServerConfig{Command: "npx", Args: []string{}}

	if err := WriteDocument(doc, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	s := string(data)
	if !strings.Contains(s, "\n  \"mcpServers\"") {
		t.Errorf("output not indented:\n%s", s)
	}
	if !strings.HasSuffix(s, "\n") {
		t.Error("output missing trailing newline")
	}
	// Empty slices serialize as arrays, never null.
	if strings.Contains(s, "null") {
		t.Errorf("null leaked into output:\n%s", s)
	}
}

func TestReadModes_MissingFile(t *testing.T) {
	doc, err := ReadModes(filepath.Join(t.TempDir(), ".roomodes"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if doc == nil || doc.CustomModes == nil {
		t.Fatal("missing file should yield empty valid registry")
	}
}

func TestWriteModes_ReadModes_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".roomodes")

	doc := NewModesDocument()
	doc.CustomModes = append(doc.CustomModes, ModeRecord{
		Slug:               "mcp-github",
		Name:               "GitHub Integration",
		Model:              DefaultModel,
		RoleDefinition:     "role",
		CustomInstructions: "extra",
		Groups:             []string{"read", "edit", "mcp"},
		Source:             SourceProject,
	})

	if err := WriteModes(doc, path); err != nil {
		t.Fatalf("WriteModes: %v", err)
	}
	got, err := ReadModes(path)
	if err != nil {
		t.Fatalf("ReadModes: %v", err)
	}
	if len(got.CustomModes) != 1 {
		t.Fatalf("len = %d", len(got.CustomModes))
	}
	rec, idx := got.Find("mcp-github")
	if idx < 0 {
		t.Fatal("record lost in round trip")
	}
	if rec.Name != "GitHub Integration" || rec.CustomInstructions != "extra" {
		t.Errorf("round trip mismatch: %+v", rec)
	}
}
