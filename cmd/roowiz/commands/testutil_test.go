package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/config"
	"github.com/rooforge/roowiz/internal/registry"
)

// testCatalogMeta returns connector metadata shaped like a real catalog entry.
func testCatalogMeta(id string) *registry.ConnectorMetadata {
	return &registry.ConnectorMetadata{
		ID:       id,
		Name:     "Test Server",
		Command:  "npx",
		BaseArgs: []string{"-y", "@{organization}/{package}@latest"},
		RequiredParams: []registry.Param{
			{Name: "region"},
			{Name: "apiKey", Secret: true},
		},
		RecommendedPermissions: []string{"read"},
		Tags:                   []string{"cloud"},
		Rating:                 4.5,
	}
}

// newTestCatalog starts a fake registry serving the given connectors.
func newTestCatalog(t *testing.T, connectors map[string]*registry.ConnectorMetadata) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/servers":
			var list registry.ServerList
			for _, m := range connectors {
				list.Servers = append(list.Servers, *m)
			}
			list.Total = len(list.Servers)
			_ = json.NewEncoder(w).Encode(list)
		case r.URL.Path == "/categories":
			_ = json.NewEncoder(w).Encode(registry.CategoryList{
				Categories: []registry.Category{{Name: "cloud", Count: len(connectors)}},
			})
		case r.URL.Path == "/search":
			var results registry.SearchResults
			q := r.URL.Query().Get("q")
			for _, m := range connectors {
				if strings.Contains(m.ID, q) || strings.Contains(m.Name, q) {
					results.Results = append(results.Results, *m)
				}
			}
			results.Total = len(results.Results)
			_ = json.NewEncoder(w).Encode(results)
		case strings.HasPrefix(r.URL.Path, "/servers/"):
			id := strings.TrimPrefix(r.URL.Path, "/servers/")
			m, ok := connectors[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":"RES_001","message":"connector not found"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(m)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupTestProject points the package-level flags at a temp project and a
// fake catalog, restoring the previous values afterwards.
func setupTestProject(t *testing.T, catalogURL string) string {
	t.Helper()

	origProject := projectFlag
	origRegistryURL := registryURLFlag
	origLoaded := loadedOptions
	t.Cleanup(func() {
		projectFlag = origProject
		registryURLFlag = origRegistryURL
		loadedOptions = origLoaded
	})

	dir := t.TempDir()
	projectFlag = dir
	registryURLFlag = catalogURL

	opts := config.Default()
	loadedOptions = &opts

	return dir
}

// testCommand returns a throwaway command with a usable context.
func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}
