package filemanager

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestMergeConfigurations(t *testing.T) {
	base := map[string]any{
		"mcpServers": map[string]any{
			"github": map[string]any{
				"command":     "npx",
				"args":        []any{"-y", "@github/mcp@1.0"},
				"alwaysAllow": []any{"read"},
			},
		},
		"version": "1",
	}
	overlay := map[string]any{
		"mcpServers": map[string]any{
			"github": map[string]any{
				"args": []any{"-y", "@github/mcp@2.0"},
			},
			"slack": map[string]any{
				"command": "npx",
			},
		},
	}

	t.Run("shallow replaces top-level keys", func(t *testing.T) {
		got, err := MergeConfigurations(base, overlay, StrategyShallow)
		if err != nil {
			t.Fatal(err)
		}
		servers := got["mcpServers"].(map[string]any)
		gh := servers["github"].(map[string]any)
		if _, ok := gh["command"]; ok {
			t.Error("shallow merge should have replaced the github record wholesale")
		}
		if got["version"] != "1" {
			t.Error("untouched base key lost")
		}
	})

	t.Run("deep recurses into maps, arrays atomic", func(t *testing.T) {
		got, err := MergeConfigurations(base, overlay, StrategyDeep)
		if err != nil {
			t.Fatal(err)
		}
		servers := got["mcpServers"].(map[string]any)
		gh := servers["github"].(map[string]any)
		if gh["command"] != "npx" {
			t.Error("deep merge lost base field")
		}
		// Overlay array replaces base array, no element-wise merge.
		if !reflect.DeepEqual(gh["args"], []any{"-y", "@github/mcp@2.0"}) {
			t.Errorf("args = %v", gh["args"])
		}
		if !reflect.DeepEqual(gh["alwaysAllow"], []any{"read"}) {
			t.Errorf("alwaysAllow = %v", gh["alwaysAllow"])
		}
		if servers["slack"] == nil {
			t.Error("deep merge lost overlay-only record")
		}
	})

	t.Run("overwrite discards base", func(t *testing.T) {
		got, err := MergeConfigurations(base, overlay, StrategyOverwrite)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got["version"]; ok {
			t.Error("overwrite kept base key")
		}
	})

	t.Run("selective takes only named keys", func(t *testing.T) {
		over := map[string]any{"version": "2", "extra": true}
		got, err := MergeConfigurations(base, over, StrategySelective, "version")
		if err != nil {
			t.Fatal(err)
		}
		if got["version"] != "2" {
			t.Error("selected key not taken")
		}
		if _, ok := got["extra"]; ok {
			t.Error("unselected key taken")
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := MergeConfigurations(base, overlay, MergeStrategy("zip"))
		if !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestMergeConfigurations_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	overlay := map[string]any{"a": map[string]any{"y": 2}}

	got, err := MergeConfigurations(base, overlay, StrategyDeep)
	if err != nil {
		t.Fatal(err)
	}
	got["a"].(map[string]any)["x"] = 99

	if base["a"].(map[string]any)["x"] != 1 {
		t.Error("base mutated through result")
	}
	if _, ok := overlay["a"].(map[string]any)["x"]; ok {
		t.Error("overlay mutated")
	}
}
