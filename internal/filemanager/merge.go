package filemanager

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// MergeStrategy selects how MergeConfigurations combines two documents.
type MergeStrategy string

const (
	// StrategyShallow takes overlay values at the top level only.
	StrategyShallow MergeStrategy = "shallow"

	// StrategyDeep merges nested maps recursively. Arrays are atomic: an
	// overlay array replaces the base array wholesale.
	StrategyDeep MergeStrategy = "deep"

	// StrategyOverwrite discards the base entirely.
	StrategyOverwrite MergeStrategy = "overwrite"

	// StrategySelective takes overlay values only for the named keys.
	StrategySelective MergeStrategy = "selective"
)

// MergeConfigurations combines base and overlay according to strategy.
// Neither input is mutated. The keys argument applies only to
// StrategySelective and names the top-level keys taken from the overlay.
func MergeConfigurations(base, overlay map[string]any, strategy MergeStrategy, keys ...string) (map[string]any, error) {
	switch strategy {
	case StrategyShallow:
		out := cloneMap(base)
		for k, v := range overlay {
			out[k] = cloneValue(v)
		}
		return out, nil

	case StrategyDeep:
		return deepMerge(base, overlay), nil

	case StrategyOverwrite:
		return cloneMap(overlay), nil

	case StrategySelective:
		out := cloneMap(base)
		for _, k := range keys {
			if v, ok := overlay[k]; ok {
				out[k] = cloneValue(v)
			}
		}
		return out, nil

	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", strategy)
	}
}

// deepMerge recursively merges overlay into base. Only maps recurse; any
// other overlay value, arrays included, replaces the base value.
func deepMerge(base, overlay map[string]any) map[string]any {
	out := cloneMap(base)
	for k, ov := range overlay {
		bm, baseIsMap := out[k].(map[string]any)
		om, overlayIsMap := ov.(map[string]any)
		if baseIsMap && overlayIsMap {
			out[k] = deepMerge(bm, om)
			continue
		}
		out[k] = cloneValue(ov)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
