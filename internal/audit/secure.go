package audit

import (
	"fmt"
	"strings"

	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/redact"
)

// Fix records one rewrite applied by Secure.
type Fix struct {
	// ServerID is the connector whose record was rewritten.
	ServerID string `json:"serverId"`

	// Field is the record field touched, "args" or "env".
	Field string `json:"field"`

	// Index is the position within args, or -1 for env entries.
	Index int `json:"index"`

	// EnvVar is the variable the literal was moved behind. The caller is
	// responsible for exporting it; Secure never sees the environment.
	EnvVar string `json:"envVar"`
}

// Secure rewrites every detected literal secret into an ${env:NAME}
// placeholder and returns the rewritten document with the applied fixes.
// The input document is not mutated. The literal values themselves are
// dropped, not relocated: exporting them is the caller's job.
func (a *Auditor) Secure(doc *mcpconfig.Document) (*mcpconfig.Document, []Fix) {
	if doc == nil {
		return mcpconfig.NewDocument(), nil
	}

	out := doc.Clone()
	var fixes []Fix

	for _, id := range sortedIDs(out) {
		rec := out.MCPServers[id]
		if rec == nil {
			continue
		}
		for i := range rec.Args {
			flagIdx, hit := findSecretLiteral(rec.Args, i)
			if !hit {
				continue
			}

			envVar := deriveFixEnvVar(id, rec.Args, i, flagIdx)
			rec.Args[i] = mcpconfig.EnvPlaceholder(envVar)
			fixes = append(fixes, Fix{
				ServerID: id,
				Field:    "args",
				Index:    i,
				EnvVar:   envVar,
			})

			a.logger.Info("rewrote literal secret",
				"server", id, "location", fmt.Sprintf("args[%d]", i), "envVar", envVar)
		}

		for _, key := range sortedKeys(rec.Env) {
			value := rec.Env[key]
			if value == "" || isEnvPlaceholder(value) {
				continue
			}
			if !redact.ShouldMask(key) && !looksLikeSecretValue(value) {
				continue
			}

			// The map key already names the variable the launcher expects.
			rec.Env[key] = mcpconfig.EnvPlaceholder(key)
			fixes = append(fixes, Fix{
				ServerID: id,
				Field:    "env",
				Index:    -1,
				EnvVar:   key,
			})

			a.logger.Info("rewrote literal secret",
				"server", id, "location", "env."+key, "envVar", key)
		}
	}

	return out, fixes
}

// deriveFixEnvVar names the variable for a rewritten literal. A preceding
// secret flag gives the parameter name; bare literals fall back to a
// positional SECRET_N name.
func deriveFixEnvVar(id string, args []string, i, flagIdx int) string {
	if flagIdx >= 0 {
		return mcpconfig.DeriveEnvVar(id, strings.TrimLeft(args[flagIdx], "-"))
	}
	return mcpconfig.DeriveEnvVar(id, fmt.Sprintf("secret_%d", i))
}
