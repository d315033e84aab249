package tool

import (
	"fmt"
	"time"
)

// Keyword-map argument decoding shared by tool implementations. Values
// arrive from JSON, YAML, or direct Go callers, so the helpers accept the
// common encodings of each type instead of one canonical form.

// ArgString extracts a string argument. The second return reports whether
// the key was present.
func ArgString(args map[string]any, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", true, fmt.Errorf("tool: argument %q must be a string, got %T", key, raw)
	}
	return s, true, nil
}

// ArgBool extracts a boolean argument.
func ArgBool(args map[string]any, key string) (bool, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, true, fmt.Errorf("tool: argument %q must be a boolean, got %T", key, raw)
	}
	return b, true, nil
}

// ArgDuration extracts a duration argument. Accepts time.Duration, a
// duration string ("5s"), or a number of seconds (JSON callers).
func ArgDuration(args map[string]any, key string) (time.Duration, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case time.Duration:
		return v, true, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, true, fmt.Errorf("tool: argument %q is not a valid duration: %w", key, err)
		}
		return d, true, nil
	case int:
		return time.Duration(v) * time.Second, true, nil
	case int64:
		return time.Duration(v) * time.Second, true, nil
	case float64:
		return time.Duration(v * float64(time.Second)), true, nil
	default:
		return 0, true, fmt.Errorf("tool: argument %q must be a duration, got %T", key, raw)
	}
}

// ArgStringMap extracts a map[string]string argument. Accepts either a
// map[string]string or a map[string]any whose values are strings, the
// shape generic JSON decoding produces.
func ArgStringMap(args map[string]any, key string) (map[string]string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	switch v := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, true, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				return nil, true, fmt.Errorf("tool: argument %q entry %q must be a string, got %T", key, k, val)
			}
			out[k] = s
		}
		return out, true, nil
	default:
		return nil, true, fmt.Errorf("tool: argument %q must be a string map, got %T", key, raw)
	}
}
