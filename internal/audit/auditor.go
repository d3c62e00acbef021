package audit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rooforge/roowiz/internal/mcpconfig"
	"github.com/rooforge/roowiz/internal/redact"
)

// Severity ranks audit findings.
type Severity int

const (
	// SeverityInfo flags hygiene issues with no direct security impact.
	SeverityInfo Severity = iota

	// SeverityWarning flags risky but sometimes intentional configuration.
	SeverityWarning

	// SeverityCritical flags findings that expose secrets or equivalent.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Issue is a single audit finding.
type Issue struct {
	// Severity ranks the finding.
	Severity Severity `json:"severity"`

	// ServerID is the connector the finding belongs to.
	ServerID string `json:"serverId"`

	// Location is the JSON path of the offending value, for example
	// "mcpServers.github.args[3]".
	Location string `json:"location"`

	// Message describes the finding. Secret values are masked.
	Message string `json:"message"`

	// Recommendation says how to resolve it.
	Recommendation string `json:"recommendation"`
}

// Summary aggregates counts of findings by severity.
type Summary struct {
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Report aggregates all findings from one audit run.
type Report struct {
	// Timestamp is when the audit ran.
	Timestamp time.Time `json:"timestamp"`

	// Issues contains every finding, grouped by connector in id order.
	Issues []Issue `json:"issues"`

	// Summary contains counts by severity.
	Summary Summary `json:"summary"`
}

// HasCritical returns true if any finding is critical.
func (r *Report) HasCritical() bool {
	return r.Summary.Critical > 0
}

// HasIssues returns true if the audit produced any finding.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// highRiskPermissions are exact alwaysAllow grants flagged as risky.
var highRiskPermissions = []string{"admin", "delete"}

// highRiskSubstrings flag any grant containing them.
var highRiskSubstrings = []string{"write", "create", "update", "execute_sql"}

// uuidPattern matches UUID-shaped literals, which are almost always API keys
// in connector args.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// opaqueTokenPattern matches long unbroken alphanumeric literals. A digit
// and a letter are both required so package names and hostnames do not trip
// it.
var opaqueTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{20,}$`)

// Auditor runs security heuristics over a server-configuration document.
type Auditor struct {
	logger *slog.Logger

	// lookupEnv is injectable for env-reference tests.
	lookupEnv func(string) (string, bool)

	// now is injectable for deterministic report timestamps.
	now func() time.Time
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLookupEnv overrides process-environment lookups.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(a *Auditor) {
		if lookup != nil {
			a.lookupEnv = lookup
		}
	}
}

// New creates an Auditor with the given options.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuditConfiguration runs all heuristics over the document and returns the
// aggregated report. Connectors are visited in id order so reports are
// stable across runs.
func (a *Auditor) AuditConfiguration(doc *mcpconfig.Document) *Report {
	report := &Report{Timestamp: a.now().UTC()}
	if doc == nil {
		return report
	}

	for _, id := range sortedIDs(doc) {
		rec := doc.MCPServers[id]
		if rec == nil {
			continue
		}
		report.Issues = append(report.Issues, a.auditRecord(id, rec)...)
	}

	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityCritical:
			report.Summary.Critical++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityInfo:
			report.Summary.Info++
		}
	}

	a.logger.Debug("audit complete",
		"critical", report.Summary.Critical,
		"warnings", report.Summary.Warnings,
		"info", report.Summary.Info)
	return report
}

// auditRecord applies the per-record heuristics.
func (a *Auditor) auditRecord(id string, rec *mcpconfig.ServerConfig) []Issue {
	var issues []Issue
	base := "mcpServers." + id

	for i, arg := range rec.Args {
		loc := fmt.Sprintf("%s.args[%d]", base, i)

		if idx, hit := findSecretLiteral(rec.Args, i); hit {
			issues = append(issues, Issue{
				Severity: SeverityCritical,
				ServerID: id,
				Location: loc,
				Message: fmt.Sprintf("literal secret %s in args (%s)",
					redact.MaskValue(arg), secretReason(rec.Args, i, idx)),
				Recommendation: "move the value to an environment variable and reference it as ${env:NAME}",
			})
			continue
		}

		if strings.Contains(arg, "@latest") {
			issues = append(issues, Issue{
				Severity:       SeverityInfo,
				ServerID:       id,
				Location:       loc,
				Message:        "package version is @latest, not pinned",
				Recommendation: "pin an exact version so connector behavior does not change underneath you",
			})
		}
	}

	for i, perm := range rec.AlwaysAllow {
		if !isHighRiskPermission(perm) {
			continue
		}
		issues = append(issues, Issue{
			Severity:       SeverityWarning,
			ServerID:       id,
			Location:       fmt.Sprintf("%s.alwaysAllow[%d]", base, i),
			Message:        fmt.Sprintf("high-risk permission %q granted without prompting", perm),
			Recommendation: "drop the grant or accept that the connector can perform this operation unattended",
		})
	}

	for _, key := range sortedKeys(rec.Env) {
		value := rec.Env[key]
		if value == "" || isEnvPlaceholder(value) {
			continue
		}
		if redact.ShouldMask(key) || looksLikeSecretValue(value) {
			issues = append(issues, Issue{
				Severity:       SeverityCritical,
				ServerID:       id,
				Location:       base + ".env." + key,
				Message:        fmt.Sprintf("literal secret %s in env %s", redact.MaskValue(value), key),
				Recommendation: "reference the variable as ${env:" + key + "} instead of inlining the value",
			})
		}
	}

	return issues
}

// findSecretLiteral reports whether args[i] is a literal secret. The second
// return is the index of the flag that marked it secret, or -1 when the
// value itself looked secret.
func findSecretLiteral(args []string, i int) (int, bool) {
	arg := args[i]
	if arg == "" || isEnvPlaceholder(arg) || strings.HasPrefix(arg, "-") {
		return -1, false
	}

	// A value following a secret-named flag is secret regardless of shape.
	if i > 0 && strings.HasPrefix(args[i-1], "--") {
		flag := strings.TrimLeft(args[i-1], "-")
		if mcpconfig.IsSecretParamName(flag) {
			return i - 1, true
		}
	}

	if looksLikeSecretValue(arg) {
		return -1, true
	}
	return -1, false
}

// secretReason explains which heuristic fired, for the issue message.
func secretReason(args []string, i, flagIdx int) string {
	switch {
	case flagIdx >= 0:
		return "value of secret flag " + args[flagIdx]
	case redact.ContainsTokenPrefix(args[i]):
		return "provider key prefix"
	case uuidPattern.MatchString(args[i]):
		return "UUID-shaped value"
	default:
		return "long opaque token"
	}
}

// looksLikeSecretValue applies the shape heuristics to a single value.
func looksLikeSecretValue(v string) bool {
	if redact.ContainsTokenPrefix(v) {
		return true
	}
	if uuidPattern.MatchString(v) {
		return true
	}
	return opaqueTokenPattern.MatchString(v) && hasLetterAndDigit(v)
}

func hasLetterAndDigit(v string) bool {
	var letter, digit bool
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		}
	}
	return letter && digit
}

func isEnvPlaceholder(v string) bool {
	return strings.Contains(v, "${env:")
}

func isHighRiskPermission(perm string) bool {
	lower := strings.ToLower(perm)
	for _, exact := range highRiskPermissions {
		if lower == exact {
			return true
		}
	}
	for _, sub := range highRiskSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return strings.Contains(perm, "*")
}

func sortedIDs(doc *mcpconfig.Document) []string {
	ids := make([]string, 0, len(doc.MCPServers))
	for id := range doc.MCPServers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
