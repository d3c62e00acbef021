package mcpconfig

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rooforge/roowiz/internal/registry"
)

// DefaultModel is the assistant model bound to generated mode records.
const DefaultModel = "claude-3-7-sonnet-20250219"

// defaultGroups are the capability groups every generated mode carries.
// The "mcp" group is what routes connector tool calls to the mode.
var defaultGroups = []string{"read", "edit", "mcp"}

// secretNamePattern classifies parameter names that must never be persisted
// as literals, in addition to the catalog's explicit secret flag.
var secretNamePattern = regexp.MustCompile(`(?i)(token|key|secret|password|credential|auth)`)

// IsSecretParamName reports whether a parameter name looks secret-bearing.
func IsSecretParamName(name string) bool {
	return secretNamePattern.MatchString(name)
}

// DeriveEnvVar builds the environment variable name for a secret parameter
// without a catalog-declared one: {CONNECTOR_ID}_{PARAM_NAME}, uppercased,
// hyphens replaced with underscores.
func DeriveEnvVar(connectorID, paramName string) string {
	v := strings.ToUpper(connectorID + "_" + paramName)
	return strings.ReplaceAll(v, "-", "_")
}

// EnvPlaceholder wraps an environment variable name in the ${env:NAME}
// placeholder syntax.
func EnvPlaceholder(envVar string) string {
	return "${env:" + envVar + "}"
}

// Params carries the user-supplied inputs for one connector.
type Params struct {
	// Values maps parameter name to the user-supplied value. Secret-classified
	// values are replaced with placeholders before persistence; the literal
	// never reaches disk.
	Values map[string]string

	// Permissions are extra alwaysAllow grants beyond the connector's
	// recommendations.
	Permissions []string

	// Organization and Package fill the {organization} and {package}
	// placeholders in catalog arg templates. Both optional.
	Organization string
	Package      string
}

// Connector pairs catalog metadata with the user's parameters.
type Connector struct {
	Meta   *registry.ConnectorMetadata
	Params Params
}

// baseTemplates provide per-category defaults applied before connector
// metadata. Matched against connector tags; unmatched tags fall back to
// the generic template.
var baseTemplates = map[string]ServerConfig{
	"database": {Command: "npx", AlwaysAllow: []string{"read", "query"}},
	"ai":       {Command: "npx", AlwaysAllow: []string{"read"}},
	"cloud":    {Command: "npx", AlwaysAllow: []string{"read", "list"}},
	"generic":  {Command: "npx", AlwaysAllow: []string{"read"}},
}

// templateFor selects the base template for a connector's tags.
func templateFor(tags []string) ServerConfig {
	for _, tag := range tags {
		if tpl, ok := baseTemplates[strings.ToLower(tag)]; ok {
			return tpl
		}
	}
	return baseTemplates["generic"]
}

// GenerateServerConfig builds a connector's server-configuration record from
// catalog metadata and user parameters.
//
// Secret-classified parameters (catalog flag or secret-looking name) are
// emitted as ${env:VAR} placeholders. The rest are appended literally as
// --name value pairs. AlwaysAllow is the deduplicated union of the template
// defaults, the connector's recommended permissions, and the caller's grants.
func GenerateServerConfig(meta *registry.ConnectorMetadata, params Params) (*ServerConfig, error) {
	if meta == nil {
		return nil, errors.New("connector metadata is required")
	}
	if !ValidID(meta.ID) {
		return nil, errors.Newf("connector id %q must match %s", meta.ID, idPattern)
	}

	tpl := templateFor(meta.Tags)

	command := meta.Command
	if command == "" {
		command = tpl.Command
	}

	rec := &ServerConfig{
		Command:     command,
		Args:        substituteArgs(meta.BaseArgs, meta.ID, params),
		AlwaysAllow: []string{},
	}

	// Parameter args in declared order, then any undeclared extras sorted by
	// name for deterministic output.
	for _, p := range meta.Params() {
		value, ok := params.Values[p.Name]
		if !ok {
			if p.Default == "" {
				continue
			}
			value = p.Default
		}
		rec.Args = append(rec.Args, paramArgs(meta.ID, p.Name, value, p)...)
	}
	for _, name := range undeclaredParamNames(meta, params.Values) {
		rec.Args = append(rec.Args, paramArgs(meta.ID, name, params.Values[name], registry.Param{})...)
	}

	rec.AlwaysAllow = unionPermissions(tpl.AlwaysAllow, params.Permissions, meta.RecommendedPermissions)

	return rec, nil
}

// paramArgs renders one parameter as a pair of args, resolving secrets to
// environment placeholders.
func paramArgs(connectorID, name, value string, p registry.Param) []string {
	flag := "--" + name

	if p.Secret || IsSecretParamName(name) {
		// Already a placeholder: the user resolved the secret themselves.
		if !strings.HasPrefix(value, "${env:") {
			envVar := p.EnvVar
			if envVar == "" {
				envVar = DeriveEnvVar(connectorID, name)
			}
			value = EnvPlaceholder(envVar)
		}
	}

	return []string{flag, value}
}

// undeclaredParamNames returns value keys the catalog does not declare,
// sorted for stable arg ordering.
func undeclaredParamNames(meta *registry.ConnectorMetadata, values map[string]string) []string {
	var names []string
	for name := range values {
		if _, declared := meta.FindParam(name); !declared {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// substituteArgs fills {organization} and {package} placeholders in the
// catalog's arg template.
func substituteArgs(baseArgs []string, connectorID string, params Params) []string {
	org := params.Organization
	if org == "" {
		org = "mcp"
	}
	pkg := params.Package
	if pkg == "" {
		pkg = connectorID
	}

	r := strings.NewReplacer(
		"{organization}", org,
		"{package}", pkg,
	)

	out := make([]string, 0, len(baseArgs))
	for _, arg := range baseArgs {
		out = append(out, r.Replace(arg))
	}
	return out
}

// unionPermissions merges permission sets preserving first-seen order.
func unionPermissions(sets ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, set := range sets {
		for _, perm := range set {
			if perm == "" || seen[perm] {
				continue
			}
			seen[perm] = true
			out = append(out, perm)
		}
	}
	return out
}

// GenerateDocument builds a full server-configuration document for a set of
// connectors.
func GenerateDocument(connectors []Connector) (*Document, error) {
	doc := NewDocument()
	for _, c := range connectors {
		rec, err := GenerateServerConfig(c.Meta, c.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "generating config for %s", c.Meta.ID)
		}
		doc.MCPServers[c.Meta.ID] = rec
	}
	return doc, nil
}

// GenerateModeRecord builds the assistant-mode record paired with a connector.
func GenerateModeRecord(meta *registry.ConnectorMetadata) (ModeRecord, error) {
	if meta == nil {
		return ModeRecord{}, errors.New("connector metadata is required")
	}
	if !ValidID(meta.ID) {
		return ModeRecord{}, errors.Newf("connector id %q must match %s", meta.ID, idPattern)
	}

	name := meta.Name
	if name == "" {
		name = meta.ID
	}

	return ModeRecord{
		Slug:  ModeSlug(meta.ID),
		Name:  name + " Integration",
		Model: DefaultModel,
		RoleDefinition: fmt.Sprintf(
			"You are an integration specialist for the %s connector. "+
				"You operate its tools through MCP and translate user intent into connector operations.",
			name),
		Groups: append([]string(nil), defaultGroups...),
		Source: SourceProject,
	}, nil
}

// GenerateModeRecords builds mode records for a set of connectors.
func GenerateModeRecords(connectors []Connector) ([]ModeRecord, error) {
	out := make([]ModeRecord, 0, len(connectors))
	for _, c := range connectors {
		rec, err := GenerateModeRecord(c.Meta)
		if err != nil {
			return nil, errors.Wrapf(err, "generating mode for %s", c.Meta.ID)
		}
		out = append(out, rec)
	}
	return out, nil
}
