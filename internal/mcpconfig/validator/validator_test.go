package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

func validRecord() *mcpconfig.ServerConfig {
	return &mcpconfig.ServerConfig{
		Command:     "npx",
		Args:        []string{"-y", "@github/mcp-server@latest"},
		AlwaysAllow: []string{"read"},
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name           string
		doc            *mcpconfig.Document
		wantErrCount   int
		wantWarnCount  int
		wantProperty   string
		wantMsgContain string
		wantErr        error
	}{
		{
			name:         "nil document",
			doc:          nil,
			wantErrCount: 1,
			wantErr:      ErrNilDocument,
		},
		{
			name:         "empty document is valid",
			doc:          mcpconfig.NewDocument(),
			wantErrCount: 0,
		},
		{
			name: "valid record",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": validRecord(),
				},
			},
			wantErrCount: 0,
		},
		{
			name: "invalid connector id",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"bad id!": validRecord(),
				},
			},
			wantErrCount: 1,
			wantProperty: "mcpServers.bad id!",
			wantErr:      ErrInvalidConnectorID,
		},
		{
			name: "missing command",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": {Args: []string{}, AlwaysAllow: []string{}},
				},
			},
			wantErrCount:   1,
			wantProperty:   "mcpServers.github.command",
			wantMsgContain: "command is required",
			wantErr:        ErrMissingCommand,
		},
		{
			name: "nil args",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": {Command: "npx", AlwaysAllow: []string{}},
				},
			},
			wantErrCount: 1,
			wantProperty: "mcpServers.github.args",
			wantErr:      ErrNilArgs,
		},
		{
			name: "nil alwaysAllow",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": {Command: "npx", Args: []string{}},
				},
			},
			wantErrCount: 1,
			wantProperty: "mcpServers.github.alwaysAllow",
			wantErr:      ErrNilAlwaysAllow,
		},
		{
			name: "empty env key",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": {
						Command:     "npx",
						Args:        []string{},
						AlwaysAllow: []string{},
						Env:         map[string]string{"": "x"},
					},
				},
			},
			wantErrCount: 1,
			wantErr:      ErrEmptyEnvKey,
		},
		{
			name: "multiple violations collected in one pass",
			doc: &mcpconfig.Document{
				MCPServers: map[string]*mcpconfig.ServerConfig{
					"github": {},
				},
			},
			wantErrCount: 3, // missing command, nil args, nil alwaysAllow
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			errs := v.Validate(tt.doc)

			if got := len(Errors(errs)); got != tt.wantErrCount {
				t.Errorf("error count = %d, want %d; errs: %v", got, tt.wantErrCount, errs)
			}
			if got := len(Warnings(errs)); got != tt.wantWarnCount {
				t.Errorf("warning count = %d, want %d; errs: %v", got, tt.wantWarnCount, errs)
			}

			if tt.wantProperty != "" {
				found := false
				for _, e := range errs {
					if strings.HasPrefix(e.Property, tt.wantProperty) {
						found = true
					}
				}
				if !found {
					t.Errorf("no violation with property %q in %v", tt.wantProperty, errs)
				}
			}
			if tt.wantMsgContain != "" {
				found := false
				for _, e := range errs {
					if strings.Contains(e.Message, tt.wantMsgContain) {
						found = true
					}
				}
				if !found {
					t.Errorf("no violation containing %q in %v", tt.wantMsgContain, errs)
				}
			}
			if tt.wantErr != nil {
				found := false
				for _, e := range errs {
					if errors.Is(e, tt.wantErr) {
						found = true
					}
				}
				if !found {
					t.Errorf("no violation matching %v in %v", tt.wantErr, errs)
				}
			}
		})
	}
}

func TestValidator_ValidateModeRecord(t *testing.T) {
	valid := mcpconfig.ModeRecord{
		Slug:           "mcp-github",
		Name:           "GitHub Integration",
		RoleDefinition: "You have access to the GitHub connector tools.",
		Groups:         []string{"read", "edit", "mcp"},
		Source:         mcpconfig.SourceProject,
	}

	tests := []struct {
		name          string
		mutate        func(*mcpconfig.ModeRecord)
		wantErrCount  int
		wantWarnCount int
		wantErr       error
	}{
		{
			name:   "valid record",
			mutate: func(*mcpconfig.ModeRecord) {},
		},
		{
			name:         "slug without prefix",
			mutate:       func(r *mcpconfig.ModeRecord) { r.Slug = "github" },
			wantErrCount: 1,
			wantErr:      ErrInvalidSlug,
		},
		{
			name:         "missing name",
			mutate:       func(r *mcpconfig.ModeRecord) { r.Name = "" },
			wantErrCount: 1,
			wantErr:      ErrMissingModeName,
		},
		{
			name:         "missing role definition",
			mutate:       func(r *mcpconfig.ModeRecord) { r.RoleDefinition = "" },
			wantErrCount: 1,
			wantErr:      ErrMissingRoleDefinition,
		},
		{
			name:          "groups without mcp is a warning",
			mutate:        func(r *mcpconfig.ModeRecord) { r.Groups = []string{"read"} },
			wantWarnCount: 1,
			wantErr:       ErrMissingMCPGroup,
		},
		{
			name:         "invalid source",
			mutate:       func(r *mcpconfig.ModeRecord) { r.Source = "workspace" },
			wantErrCount: 1,
			wantErr:      ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid.Clone()
			tt.mutate(&rec)

			v := New()
			errs := v.ValidateModeRecord(0, &rec)

			if got := len(Errors(errs)); got != tt.wantErrCount {
				t.Errorf("error count = %d, want %d; errs: %v", got, tt.wantErrCount, errs)
			}
			if got := len(Warnings(errs)); got != tt.wantWarnCount {
				t.Errorf("warning count = %d, want %d; errs: %v", got, tt.wantWarnCount, errs)
			}
			if tt.wantErr != nil {
				found := false
				for _, e := range errs {
					if errors.Is(e, tt.wantErr) {
						found = true
					}
				}
				if !found {
					t.Errorf("no violation matching %v in %v", tt.wantErr, errs)
				}
			}
		})
	}
}

func TestValidator_ValidateModes_Pairing(t *testing.T) {
	doc := &mcpconfig.Document{
		MCPServers: map[string]*mcpconfig.ServerConfig{
			"github": validRecord(),
		},
	}
	modes := &mcpconfig.ModesDocument{
		CustomModes: []mcpconfig.ModeRecord{
			{
				Slug:           "mcp-github",
				Name:           "GitHub Integration",
				RoleDefinition: "role",
				Groups:         []string{"mcp"},
				Source:         mcpconfig.SourceProject,
			},
			{
				Slug:           "mcp-orphan",
				Name:           "Orphan",
				RoleDefinition: "role",
				Groups:         []string{"mcp"},
				Source:         mcpconfig.SourceProject,
			},
		},
	}

	errs := New().ValidateModes(modes, doc)
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", Errors(errs))
	}
	if !HasWarnings(errs) {
		t.Fatal("expected unpaired mode warning")
	}
	found := false
	for _, e := range errs {
		if errors.Is(e, ErrUnpairedMode) && e.Value == "mcp-orphan" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrUnpairedMode for mcp-orphan, got %v", errs)
	}

	// Strict pairing upgrades the warning to an error.
	errs = New(WithRequirePairing(true)).ValidateModes(modes, doc)
	if !HasErrors(errs) {
		t.Fatal("expected pairing error with WithRequirePairing")
	}

	// Non-project modes are exempt from pairing.
	modes.CustomModes[1].Source = mcpconfig.SourceUser
	errs = New(WithRequirePairing(true)).ValidateModes(modes, doc)
	if HasErrors(errs) || HasWarnings(errs) {
		t.Fatalf("non-project mode should not be checked for pairing: %v", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{
		Property: "mcpServers.github.command",
		Message:  "command is required",
		Severity: SeverityError,
		Err:      ErrMissingCommand,
	}
	got := e.Error()
	if !strings.Contains(got, "error:") || !strings.Contains(got, "mcpServers.github.command") {
		t.Errorf("Error() = %q", got)
	}

	w := &ValidationError{
		Property: "customModes[0].source",
		Message:  "source must be 'project', 'user', 'system', or 'global'",
		Value:    "workspace",
		Severity: SeverityWarning,
	}
	got = w.Error()
	if !strings.Contains(got, "warning:") || !strings.Contains(got, `"workspace"`) {
		t.Errorf("Error() = %q", got)
	}
}
