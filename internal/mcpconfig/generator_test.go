package mcpconfig

import (
	"slices"
	"strings"
	"testing"

	"github.com/rooforge/roowiz/internal/registry"
)

func testMeta() *registry.ConnectorMetadata {
	return &registry.ConnectorMetadata{
		ID:       "test-server",
		Name:     "Test Server",
		Command:  "npx",
		BaseArgs: []string{"-y", "@{organization}/{package}@latest"},
		RequiredParams: []registry.Param{
			{Name: "region"},
			{Name: "apiKey", Secret: true},
		},
		OptionalParams: []registry.Param{
			{Name: "timeout", Default: "30"},
		},
		RecommendedPermissions: []string{"read", "write"},
		Tags:                   []string{"cloud"},
	}
}

func TestGenerateServerConfig(t *testing.T) {
	rec, err := GenerateServerConfig(testMeta(), Params{
		Values: map[string]string{
			"region": "us-west-2",
			"apiKey": "sk-live-1234567890",
		},
	})
	if err != nil {
		t.Fatalf("GenerateServerConfig: %v", err)
	}

	if rec.Command != "npx" {
		t.Errorf("Command = %q, want npx", rec.Command)
	}

	want := []string{
		"-y", "@mcp/test-server@latest",
		"--region", "us-west-2",
		"--apiKey", "${env:TEST_SERVER_APIKEY}",
		"--timeout", "30",
	}
	if !slices.Equal(rec.Args, want) {
		t.Errorf("Args = %v, want %v", rec.Args, want)
	}

	// The literal secret must not survive anywhere in the record.
	for _, arg := range rec.Args {
		if strings.Contains(arg, "sk-live") {
			t.Errorf("secret literal leaked into args: %q", arg)
		}
	}

	for _, perm := range []string{"read", "write"} {
		if !slices.Contains(rec.AlwaysAllow, perm) {
			t.Errorf("AlwaysAllow = %v, missing %q", rec.AlwaysAllow, perm)
		}
	}
}

func TestGenerateServerConfig_SecretHandling(t *testing.T) {
	tests := []struct {
		name    string
		meta    *registry.ConnectorMetadata
		values  map[string]string
		wantArg string
	}{
		{
			name: "catalog-declared env var wins",
			meta: &registry.ConnectorMetadata{
				ID: "gh",
				RequiredParams: []registry.Param{
					{Name: "apiKey", Secret: true, EnvVar: "GH_API_KEY"},
				},
			},
			values:  map[string]string{"apiKey": "ghp_secret"},
			wantArg: "${env:GH_API_KEY}",
		},
		{
			name: "env var derived when catalog omits it",
			meta: &registry.ConnectorMetadata{
				ID: "my-db",
				RequiredParams: []registry.Param{
					{Name: "password", Secret: true},
				},
			},
			values:  map[string]string{"password": "hunter2"},
			wantArg: "${env:MY_DB_PASSWORD}",
		},
		{
			name: "secret-looking name masked without catalog flag",
			meta: &registry.ConnectorMetadata{
				ID: "svc",
				RequiredParams: []registry.Param{
					{Name: "authToken"},
				},
			},
			values:  map[string]string{"authToken": "xoxb-123"},
			wantArg: "${env:SVC_AUTHTOKEN}",
		},
		{
			name: "user-supplied placeholder passes through unchanged",
			meta: &registry.ConnectorMetadata{
				ID: "svc",
				RequiredParams: []registry.Param{
					{Name: "token", Secret: true},
				},
			},
			values:  map[string]string{"token": "${env:MY_OWN_VAR}"},
			wantArg: "${env:MY_OWN_VAR}",
		},
		{
			name: "non-secret value persisted literally",
			meta: &registry.ConnectorMetadata{
				ID: "svc",
				RequiredParams: []registry.Param{
					{Name: "region"},
				},
			},
			values:  map[string]string{"region": "eu-central-1"},
			wantArg: "eu-central-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := GenerateServerConfig(tt.meta, Params{Values: tt.values})
			if err != nil {
				t.Fatalf("GenerateServerConfig: %v", err)
			}
			if !slices.Contains(rec.Args, tt.wantArg) {
				t.Errorf("Args = %v, want to contain %q", rec.Args, tt.wantArg)
			}
		})
	}
}

func TestGenerateServerConfig_Deterministic(t *testing.T) {
	meta := &registry.ConnectorMetadata{ID: "svc"}
	params := Params{Values: map[string]string{
		"zeta":  "1",
		"alpha": "2",
		"mid":   "3",
	}}

	first, err := GenerateServerConfig(meta, params)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		rec, err := GenerateServerConfig(meta, params)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(rec.Args, first.Args) {
			t.Fatalf("args not deterministic: %v vs %v", rec.Args, first.Args)
		}
	}

	// Undeclared extras sort by name.
	want := []string{"--alpha", "2", "--mid", "3", "--zeta", "1"}
	if !slices.Equal(first.Args, want) {
		t.Errorf("Args = %v, want %v", first.Args, want)
	}
}

func TestGenerateServerConfig_Errors(t *testing.T) {
	if _, err := GenerateServerConfig(nil, Params{}); err == nil {
		t.Error("expected error for nil metadata")
	}
	if _, err := GenerateServerConfig(&registry.ConnectorMetadata{ID: "bad id!"}, Params{}); err == nil {
		t.Error("expected error for invalid connector id")
	}
}

func TestGenerateServerConfig_OrganizationAndPackage(t *testing.T) {
	meta := &registry.ConnectorMetadata{
		ID:       "pg",
		BaseArgs: []string{"@{organization}/{package}@latest"},
	}

	rec, err := GenerateServerConfig(meta, Params{Organization: "acme", Package: "pg-server"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Args[0] != "@acme/pg-server@latest" {
		t.Errorf("Args[0] = %q", rec.Args[0])
	}

	rec, err = GenerateServerConfig(meta, Params{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Args[0] != "@mcp/pg@latest" {
		t.Errorf("defaults: Args[0] = %q", rec.Args[0])
	}
}

func TestGenerateModeRecord(t *testing.T) {
	rec, err := GenerateModeRecord(testMeta())
	if err != nil {
		t.Fatalf("GenerateModeRecord: %v", err)
	}

	if rec.Slug != "mcp-test-server" {
		t.Errorf("Slug = %q, want mcp-test-server", rec.Slug)
	}
	if rec.Name != "Test Server Integration" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Model != DefaultModel {
		t.Errorf("Model = %q", rec.Model)
	}
	if !strings.Contains(rec.RoleDefinition, "Test Server") {
		t.Errorf("RoleDefinition = %q", rec.RoleDefinition)
	}
	if !slices.Equal(rec.Groups, []string{"read", "edit", "mcp"}) {
		t.Errorf("Groups = %v", rec.Groups)
	}
	if rec.Source != SourceProject {
		t.Errorf("Source = %q", rec.Source)
	}
}

func TestGenerateDocument(t *testing.T) {
	doc, err := GenerateDocument([]Connector{
		{Meta: testMeta(), Params: Params{Values: map[string]string{
			"region": "us-west-2",
			"apiKey": "sk-secret",
		}}},
		{Meta: &registry.ConnectorMetadata{ID: "plain"}, Params: Params{}},
	})
	if err != nil {
		t.Fatalf("GenerateDocument: %v", err)
	}

	if len(doc.MCPServers) != 2 {
		t.Fatalf("len(MCPServers) = %d", len(doc.MCPServers))
	}
	if _, ok := doc.MCPServers["test-server"]; !ok {
		t.Error("missing test-server record")
	}
	if _, ok := doc.MCPServers["plain"]; !ok {
		t.Error("missing plain record")
	}
}

func TestDeriveEnvVar(t *testing.T) {
	tests := []struct {
		connectorID, param, want string
	}{
		{"test-server", "apiKey", "TEST_SERVER_APIKEY"},
		{"pg", "password", "PG_PASSWORD"},
		{"my-tool", "auth-token", "MY_TOOL_AUTH_TOKEN"},
	}
	for _, tt := range tests {
		if got := DeriveEnvVar(tt.connectorID, tt.param); got != tt.want {
			t.Errorf("DeriveEnvVar(%q, %q) = %q, want %q", tt.connectorID, tt.param, got, tt.want)
		}
	}
}

func TestIsSecretParamName(t *testing.T) {
	secret := []string{"apiKey", "token", "SECRET_VALUE", "password", "dbCredential", "authHeader"}
	for _, name := range secret {
		if !IsSecretParamName(name) {
			t.Errorf("IsSecretParamName(%q) = false, want true", name)
		}
	}
	plain := []string{"region", "timeout", "host", "port"}
	for _, name := range plain {
		if IsSecretParamName(name) {
			t.Errorf("IsSecretParamName(%q) = true, want false", name)
		}
	}
}
