package registry

import (
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Param describes a single connector parameter declared by the catalog.
type Param struct {
	// Name is the parameter name as passed on the command line.
	Name string `json:"name"`

	// Secret marks the parameter as sensitive. Secret values are persisted
	// as ${env:VAR} placeholders, never as literals.
	Secret bool `json:"secret,omitempty"`

	// EnvVar is the environment variable the catalog suggests for secret
	// values. When empty a name is derived from the connector and parameter.
	EnvVar string `json:"envVar,omitempty"`

	// Default is the value used when the caller supplies none.
	Default string `json:"default,omitempty"`

	// Description is free-form help text from the catalog.
	Description string `json:"description,omitempty"`
}

// ConnectorMetadata is the catalog's read-only description of a connector.
type ConnectorMetadata struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	Command                string   `json:"command"`
	BaseArgs               []string `json:"baseArgs"`
	RequiredParams         []Param  `json:"requiredParams,omitempty"`
	OptionalParams         []Param  `json:"optionalParams,omitempty"`
	RecommendedPermissions []string `json:"recommendedPermissions,omitempty"`
	Tags                   []string `json:"tags,omitempty"`
	Rating                 float64  `json:"rating,omitempty"`
}

// Params returns required and optional parameters as a single slice,
// required first.
func (m *ConnectorMetadata) Params() []Param {
	out := make([]Param, 0, len(m.RequiredParams)+len(m.OptionalParams))
	out = append(out, m.RequiredParams...)
	out = append(out, m.OptionalParams...)
	return out
}

// FindParam returns the declared parameter with the given name, if any.
func (m *ConnectorMetadata) FindParam(name string) (Param, bool) {
	for _, p := range m.Params() {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ServerFilter narrows a catalog listing. A filter with any field set
// bypasses the client cache.
type ServerFilter struct {
	Page     int
	PageSize int
	Tags     []string
	Search   string
}

// HasFilters reports whether any narrowing field is set.
func (f ServerFilter) HasFilters() bool {
	return f.Page != 0 || f.PageSize != 0 || len(f.Tags) > 0 || f.Search != ""
}

// Values encodes the filter as URL query parameters.
func (f ServerFilter) Values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	for _, tag := range f.Tags {
		v.Add("tags", tag)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// SearchQuery describes a free-text catalog search.
type SearchQuery struct {
	Q          string
	Category   string
	MinRating  float64
	MaxResults int
}

// Values encodes the query as URL query parameters.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	v.Set("q", q.Q)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinRating > 0 {
		v.Set("minRating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.MaxResults > 0 {
		v.Set("maxResults", strconv.Itoa(q.MaxResults))
	}
	return v
}

// ServerList is a page of catalog connectors.
type ServerList struct {
	Servers  []ConnectorMetadata `json:"servers"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`

	// RateLimit carries rate-limit metadata from the response headers.
	RateLimit RateLimit `json:"-"`
}

// Category is a catalog grouping with a connector count.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryList is the full set of catalog categories.
type CategoryList struct {
	Categories []Category `json:"categories"`

	RateLimit RateLimit `json:"-"`
}

// SearchResults holds connectors matching a free-text search.
type SearchResults struct {
	Results []ConnectorMetadata `json:"results"`
	Total   int                 `json:"total"`

	RateLimit RateLimit `json:"-"`
}

// RateLimit is the catalog's rate-limit metadata, parsed from response headers.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// parseRateLimit extracts rate-limit metadata from response headers.
// Missing or malformed headers leave zero values.
func parseRateLimit(h http.Header) RateLimit {
	var rl RateLimit
	if v := h.Get("X-RateLimit-Limit"); v != "" {
		rl.Limit, _ = strconv.Atoi(v)
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		rl.Remaining, _ = strconv.Atoi(v)
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.Reset = time.Unix(secs, 0)
		}
	}
	return rl
}
