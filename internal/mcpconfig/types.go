package mcpconfig

import (
	"encoding/json"
	"regexp"
)

// idPattern is the allowed shape for connector ids used as document keys.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9-_]+$`)

// ValidID reports whether id is usable as a server-configuration key.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ModeSlugPrefix prefixes every connector-paired mode slug.
const ModeSlugPrefix = "mcp-"

// ModeSlug returns the mode-registry slug paired with a connector id.
func ModeSlug(id string) string {
	return ModeSlugPrefix + id
}

// Mode record sources. Only project-sourced records participate in
// automated merges.
const (
	SourceProject = "project"
	SourceUser    = "user"
	SourceSystem  = "system"
	SourceGlobal  = "global"
)

// ServerConfig is one connector's entry in the server-configuration document.
// Secret values appear in Args only as ${env:VAR} placeholders.
type ServerConfig struct {
	Command     string            `json:"command"`
	Args        []string          `json:"args"`
	AlwaysAllow []string          `json:"alwaysAllow"`
	Env         map[string]string `json:"env,omitempty"`
}

// MarshalJSON guarantees args and alwaysAllow serialize as arrays even when
// empty, which downstream consumers of the document depend on.
func (s ServerConfig) MarshalJSON() ([]byte, error) {
	type alias ServerConfig
	a := alias(s)
	if a.Args == nil {
		a.Args = []string{}
	}
	if a.AlwaysAllow == nil {
		a.AlwaysAllow = []string{}
	}
	return json.Marshal(a)
}

// Clone returns a deep copy of the record.
func (s *ServerConfig) Clone() *ServerConfig {
	if s == nil {
		return nil
	}
	out := &ServerConfig{Command: s.Command}
	if s.Args != nil {
		out.Args = append([]string(nil), s.Args...)
	}
	if s.AlwaysAllow != nil {
		out.AlwaysAllow = append([]string(nil), s.AlwaysAllow...)
	}
	if s.Env != nil {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = v
		}
	}
	return out
}

// Document is the server-configuration document persisted at .roo/mcp.json.
type Document struct {
	MCPServers map[string]*ServerConfig `json:"mcpServers"`
}

// NewDocument creates an empty but valid Document.
func NewDocument() *Document {
	return &Document{MCPServers: make(map[string]*ServerConfig)}
}

// MarshalJSON guarantees the mcpServers key serializes as an object even
// when no connector is configured.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	a := alias(d)
	if a.MCPServers == nil {
		a.MCPServers = map[string]*ServerConfig{}
	}
	return json.Marshal(a)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for id, rec := range d.MCPServers {
		out.MCPServers[id] = rec.Clone()
	}
	return out
}

// ModeRecord binds a connector to an assistant capability profile, persisted
// in the .roomodes registry.
type ModeRecord struct {
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	Model              string   `json:"model,omitempty"`
	RoleDefinition     string   `json:"roleDefinition"`
	CustomInstructions string   `json:"customInstructions,omitempty"`
	Groups             []string `json:"groups"`
	Source             string   `json:"source"`
}

// HasGroup reports whether the record carries the named group.
func (m *ModeRecord) HasGroup(group string) bool {
	for _, g := range m.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (m ModeRecord) Clone() ModeRecord {
	out := m
	if m.Groups != nil {
		out.Groups = append([]string(nil), m.Groups...)
	}
	return out
}

// ModesDocument is the assistant-mode registry persisted at .roomodes.
type ModesDocument struct {
	CustomModes []ModeRecord `json:"customModes"`
}

// NewModesDocument creates an empty but valid ModesDocument.
func NewModesDocument() *ModesDocument {
	return &ModesDocument{CustomModes: []ModeRecord{}}
}

// MarshalJSON guarantees customModes serializes as an array even when empty.
func (d ModesDocument) MarshalJSON() ([]byte, error) {
	type alias ModesDocument
	a := alias(d)
	if a.CustomModes == nil {
		a.CustomModes = []ModeRecord{}
	}
	return json.Marshal(a)
}

// Find returns the record with the given slug and its index, or -1.
func (d *ModesDocument) Find(slug string) (ModeRecord, int) {
	for i, m := range d.CustomModes {
		if m.Slug == slug {
			return m, i
		}
	}
	return ModeRecord{}, -1
}

// Clone returns a deep copy of the document.
func (d *ModesDocument) Clone() *ModesDocument {
	out := NewModesDocument()
	for _, m := range d.CustomModes {
		out.CustomModes = append(out.CustomModes, m.Clone())
	}
	return out
}
