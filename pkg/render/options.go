package render

import (
	"fmt"
	"strings"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Values pre-populates controls keyed by field name. "static" takes the
	// option value (or label) of the selected build, "stages" a []string of
	// checked stage values and "commit" an explicit commit ref.
	Values map[string]any
	// Strict resets the commit to the profile default when the preselected
	// build label carries no short ref, instead of leaving the field default.
	Strict bool
}

// String returns the string value stored under key.
func (o RenderOptions) String(key string) string {
	switch v := o.Values[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Strings returns the list stored under key. A single string is returned as
// a one-element list; comma separated strings are split.
func (o RenderOptions) Strings(key string) []string {
	switch v := o.Values[key].(type) {
	case nil:
		return nil
	case []string:
		return compact(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return compact(out)
	case string:
		return compact(strings.Split(v, ","))
	default:
		return compact([]string{fmt.Sprint(v)})
	}
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
