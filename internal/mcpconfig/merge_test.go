package mcpconfig

import (
	"slices"
	"testing"
)

func TestMergeDocuments(t *testing.T) {
	existing := &Document{
		MCPServers: map[string]*ServerConfig{
			"github": {
				Command:     "npx",
				Args:        []string{"-y", "@github/mcp@1.0"},
				AlwaysAllow: []string{"read"},
				Env:         map[string]string{"EXTRA": "kept-only-if-not-replaced"},
			},
			"postgres": {
				Command:     "npx",
				Args:        []string{"-y", "@pg/mcp@latest"},
				AlwaysAllow: []string{"read", "query"},
			},
		},
	}
	incoming := &Document{
		MCPServers: map[string]*ServerConfig{
			"github": {
				Command:     "npx",
				Args:        []string{"-y", "@github/mcp@2.0"},
				AlwaysAllow: []string{"read", "write"},
			},
			"slack": {
				Command:     "npx",
				Args:        []string{"-y", "@slack/mcp@latest"},
				AlwaysAllow: []string{"read"},
			},
		},
	}

	merged := MergeDocuments(incoming, existing)

	if len(merged.MCPServers) != 3 {
		t.Fatalf("len = %d, want 3", len(merged.MCPServers))
	}

	// Replacement is shallow per id: the incoming record wins wholesale,
	// including the absence of the old env map.
	gh := merged.MCPServers["github"]
	if !slices.Equal(gh.Args, []string{"-y", "@github/mcp@2.0"}) {
		t.Errorf("github args = %v", gh.Args)
	}
	if gh.Env != nil {
		t.Errorf("github env should be replaced away, got %v", gh.Env)
	}

	if merged.MCPServers["postgres"] == nil {
		t.Error("untouched existing record dropped")
	}
	if merged.MCPServers["slack"] == nil {
		t.Error("new incoming record missing")
	}
}

func TestMergeDocuments_DoesNotMutateInputs(t *testing.T) {
	existing := &Document{
		MCPServers: map[string]*ServerConfig{
			"a": {Command: "npx", Args: []string{"x"}, AlwaysAllow: []string{}},
		},
	}
	incoming := &Document{
		MCPServers: map[string]*ServerConfig{
			"a": {Command: "node", Args: []string{"y"}, AlwaysAllow: []string{}},
		},
	}

	merged := MergeDocuments(incoming, existing)
	merged.MCPServers["a"].Args[0] = "mutated"
	merged.MCPServers["b"] = &ServerConfig{}

	if existing.MCPServers["a"].Args[0] != "x" {
		t.Error("existing input mutated through merged result")
	}
	if incoming.MCPServers["a"].Args[0] != "y" {
		t.Error("incoming input mutated through merged result")
	}
	if len(existing.MCPServers) != 1 || len(incoming.MCPServers) != 1 {
		t.Error("input maps mutated")
	}
}

func TestMergeDocuments_NilInputs(t *testing.T) {
	if got := MergeDocuments(nil, nil); got == nil || got.MCPServers == nil {
		t.Fatal("merge of nils must yield empty valid document")
	}

	doc := &Document{MCPServers: map[string]*ServerConfig{"a": {Command: "npx", Args: []string{}}}}
	if got := MergeDocuments(doc, nil); len(got.MCPServers) != 1 {
		t.Error("incoming-only merge lost records")
	}
	if got := MergeDocuments(nil, doc); len(got.MCPServers) != 1 {
		t.Error("existing-only merge lost records")
	}
}

func TestMergeModes_PreservesProjectCustomizations(t *testing.T) {
	existing := &ModesDocument{
		CustomModes: []ModeRecord{
			{
				Slug:               "mcp-github",
				Name:               "My Renamed GitHub Mode",
				Model:              "old-model",
				RoleDefinition:     "old role",
				CustomInstructions: "always use the staging org",
				Groups:             []string{"read", "browser"},
				Source:             SourceProject,
			},
		},
	}
	incoming := []ModeRecord{
		{
			Slug:           "mcp-github",
			Name:           "GitHub Integration",
			Model:          DefaultModel,
			RoleDefinition: "new role",
			Groups:         []string{"read", "edit", "mcp"},
			Source:         SourceProject,
		},
	}

	merged := MergeModes(incoming, existing)
	if len(merged.CustomModes) != 1 {
		t.Fatalf("len = %d, want 1", len(merged.CustomModes))
	}
	got := merged.CustomModes[0]

	// User customizations survive.
	if got.Name != "My Renamed GitHub Mode" {
		t.Errorf("Name = %q, customization lost", got.Name)
	}
	if got.CustomInstructions != "always use the staging org" {
		t.Errorf("CustomInstructions = %q, customization lost", got.CustomInstructions)
	}

	// Generated fields refresh.
	if got.RoleDefinition != "new role" {
		t.Errorf("RoleDefinition = %q, want new role", got.RoleDefinition)
	}
	if got.Model != DefaultModel {
		t.Errorf("Model = %q", got.Model)
	}

	// Groups union, incoming order first.
	want := []string{"read", "edit", "mcp", "browser"}
	if !slices.Equal(got.Groups, want) {
		t.Errorf("Groups = %v, want %v", got.Groups, want)
	}
}

func TestMergeModes_NonProjectUntouched(t *testing.T) {
	existing := &ModesDocument{
		CustomModes: []ModeRecord{
			{
				Slug:           "mcp-github",
				Name:           "Hand-Written Global Mode",
				RoleDefinition: "global role",
				Groups:         []string{"read"},
				Source:         SourceGlobal,
			},
		},
	}
	incoming := []ModeRecord{
		{
			Slug:           "mcp-github",
			Name:           "GitHub Integration",
			RoleDefinition: "generated role",
			Groups:         []string{"read", "edit", "mcp"},
			Source:         SourceProject,
		},
	}

	merged := MergeModes(incoming, existing)
	got := merged.CustomModes[0]
	if got.Name != "Hand-Written Global Mode" || got.RoleDefinition != "global role" || got.Source != SourceGlobal {
		t.Errorf("non-project record modified: %+v", got)
	}
	if !slices.Equal(got.Groups, []string{"read"}) {
		t.Errorf("non-project groups modified: %v", got.Groups)
	}
}

func TestMergeModes_AppendsNewSlugs(t *testing.T) {
	existing := &ModesDocument{
		CustomModes: []ModeRecord{
			{Slug: "mcp-github", Name: "GitHub", RoleDefinition: "r", Groups: []string{"mcp"}, Source: SourceProject},
		},
	}
	incoming := []ModeRecord{
		{Slug: "mcp-slack", Name: "Slack Integration", RoleDefinition: "r", Groups: []string{"mcp"}, Source: SourceProject},
		{Slug: "mcp-postgres", Name: "Postgres Integration", RoleDefinition: "r", Groups: []string{"mcp"}, Source: SourceProject},
	}

	merged := MergeModes(incoming, existing)
	if len(merged.CustomModes) != 3 {
		t.Fatalf("len = %d, want 3", len(merged.CustomModes))
	}
	if merged.CustomModes[1].Slug != "mcp-slack" || merged.CustomModes[2].Slug != "mcp-postgres" {
		t.Errorf("appended order wrong: %v, %v", merged.CustomModes[1].Slug, merged.CustomModes[2].Slug)
	}
}

func TestMergeModes_DoesNotMutateInputs(t *testing.T) {
	existing := &ModesDocument{
		CustomModes: []ModeRecord{
			{Slug: "mcp-a", Name: "A", RoleDefinition: "r", Groups: []string{"mcp"}, Source: SourceProject},
		},
	}
	incoming := []ModeRecord{
		{Slug: "mcp-a", Name: "A Integration", RoleDefinition: "r2", Groups: []string{"read", "mcp"}, Source: SourceProject},
	}

	merged := MergeModes(incoming, existing)
	merged.CustomModes[0].Groups[0] = "mutated"

	if incoming[0].Groups[0] != "read" {
		t.Error("incoming mutated through merged result")
	}
	if existing.CustomModes[0].Groups[0] != "mcp" {
		t.Error("existing mutated through merged result")
	}
}
