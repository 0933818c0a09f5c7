package schema

import (
	"encoding/json"
	"sort"
)

// CollectKeyPaths enumerates every dotted key path present across the
// records and returns them sorted. Arrays are sampled through their
// first element only; the export's shape is assumed homogeneous, which
// is an approximation, not a guarantee. Records that do not decode are
// skipped.
func CollectKeyPaths(records []json.RawMessage) []string {
	seen := make(map[string]struct{})
	for _, raw := range records {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		walk("", v, seen)
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func walk(prefix string, v any, seen map[string]struct{}) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			seen[path] = struct{}{}
			walk(path, child, seen)
		}
	case []any:
		if len(t) > 0 {
			walk(prefix, t[0], seen)
		}
	}
}

// TopLevelKeys returns the sorted top-level keys of a single record,
// or nil when it is not an object.
func TopLevelKeys(raw json.RawMessage) []string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
