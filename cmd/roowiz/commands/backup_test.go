package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seedBackups writes fake timestamped backups next to the config document.
func seedBackups(t *testing.T, dir string, stamps []string) []string {
	t.Helper()

	rooDir := filepath.Join(dir, ".roo")
	if err := os.MkdirAll(rooDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, ts := range stamps {
		p := filepath.Join(rooDir, "mcp.json."+ts+".bak")
		if err := os.WriteFile(p, []byte(`{"mcpServers":{}}`), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestRunBackupList(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")
	seedBackups(t, dir, []string{
		"2026-08-29T10-00-00Z",
		"2026-08-30T10-00-00Z",
	})

	origJSON := backupListJSON
	defer func() { backupListJSON = origJSON }()
	backupListJSON = false

	var buf bytes.Buffer
	if err := runBackupListWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "mcp.json.2026-08-30T10-00-00Z.bak") {
		t.Errorf("output missing backup: %q", out)
	}
	// Newest first.
	newer := strings.Index(out, "2026-08-30")
	older := strings.Index(out, "2026-08-29")
	if newer == -1 || older == -1 || newer > older {
		t.Errorf("backups not listed newest first: %q", out)
	}
}

func TestRunBackupList_Empty(t *testing.T) {
	setupTestProject(t, "http://unused.invalid")

	origJSON := backupListJSON
	defer func() { backupListJSON = origJSON }()
	backupListJSON = false

	var buf bytes.Buffer
	if err := runBackupListWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No backups found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunBackupRestore_Newest(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")
	backups := seedBackups(t, dir, []string{"2026-08-30T10-00-00Z"})

	marker := []byte(`{"mcpServers":{"restored":{"command":"npx","args":[],"alwaysAllow":[]}}}`)
	if err := os.WriteFile(backups[0], marker, 0o644); err != nil {
		t.Fatal(err)
	}

	origSrc := backupRestoreSrc
	defer func() { backupRestoreSrc = origSrc }()
	backupRestoreSrc = ""

	var buf bytes.Buffer
	if err := runBackupRestoreWithWriter(testCommand(t), "config", &buf); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".roo", "mcp.json"))
	if err != nil {
		t.Fatalf("reading restored document: %v", err)
	}
	if !strings.Contains(string(data), "restored") {
		t.Error("document should match the backup content")
	}
}

func TestRunBackupRestore_UnknownSelector(t *testing.T) {
	setupTestProject(t, "http://unused.invalid")

	var buf bytes.Buffer
	if err := runBackupRestoreWithWriter(testCommand(t), "bogus", &buf); err == nil {
		t.Fatal("expected error for unknown document selector")
	}
}

func TestRunBackupPrune(t *testing.T) {
	dir := setupTestProject(t, "http://unused.invalid")
	seedBackups(t, dir, []string{
		"2026-08-27T10-00-00Z",
		"2026-08-28T10-00-00Z",
		"2026-08-29T10-00-00Z",
		"2026-08-30T10-00-00Z",
	})

	origKeep := backupPruneKeep
	defer func() { backupPruneKeep = origKeep }()
	backupPruneKeep = 2

	var buf bytes.Buffer
	if err := runBackupPruneWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("backup prune failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Removed 2 backup(s)") {
		t.Errorf("output = %q", buf.String())
	}

	// The two newest survive.
	for _, ts := range []string{"2026-08-30T10-00-00Z", "2026-08-29T10-00-00Z"} {
		if _, err := os.Stat(filepath.Join(dir, ".roo", "mcp.json."+ts+".bak")); err != nil {
			t.Errorf("backup %s should survive: %v", ts, err)
		}
	}
	for _, ts := range []string{"2026-08-28T10-00-00Z", "2026-08-27T10-00-00Z"} {
		if _, err := os.Stat(filepath.Join(dir, ".roo", "mcp.json."+ts+".bak")); !os.IsNotExist(err) {
			t.Errorf("backup %s should be pruned", ts)
		}
	}
}
