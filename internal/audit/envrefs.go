package audit

import (
	"regexp"
	"sort"

	"github.com/rooforge/roowiz/internal/mcpconfig"
)

// envRefPattern extracts ${env:NAME} placeholders.
var envRefPattern = regexp.MustCompile(`\$\{env:([A-Za-z_][A-Za-z0-9_]*)\}`)

// Reference is one ${env:NAME} occurrence in the document.
type Reference struct {
	// ServerID is the connector the reference belongs to.
	ServerID string `json:"serverId"`

	// Var is the referenced environment variable name.
	Var string `json:"var"`

	// Set reports whether the variable is present in the environment.
	Set bool `json:"set"`
}

// EnvRefResult is the outcome of ValidateEnvRefs.
type EnvRefResult struct {
	// Valid is true when every referenced variable is set.
	Valid bool `json:"valid"`

	// Missing lists unset variable names, deduplicated and sorted.
	Missing []string `json:"missing"`

	// References lists every occurrence in connector-id order.
	References []Reference `json:"references"`
}

// ValidateEnvRefs extracts every ${env:NAME} reference from connector args
// and env values and checks each name against the process environment.
func (a *Auditor) ValidateEnvRefs(doc *mcpconfig.Document) *EnvRefResult {
	result := &EnvRefResult{Valid: true}
	if doc == nil {
		return result
	}

	missing := make(map[string]bool)
	for _, id := range sortedIDs(doc) {
		rec := doc.MCPServers[id]
		if rec == nil {
			continue
		}

		var values []string
		values = append(values, rec.Args...)
		for _, key := range sortedKeys(rec.Env) {
			values = append(values, rec.Env[key])
		}

		for _, v := range values {
			for _, match := range envRefPattern.FindAllStringSubmatch(v, -1) {
				name := match[1]
				_, set := a.lookupEnv(name)
				result.References = append(result.References, Reference{
					ServerID: id,
					Var:      name,
					Set:      set,
				})
				if !set {
					missing[name] = true
				}
			}
		}
	}

	for name := range missing {
		result.Missing = append(result.Missing, name)
	}
	sort.Strings(result.Missing)
	result.Valid = len(result.Missing) == 0

	return result
}
