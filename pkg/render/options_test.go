package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderOptionsAccessors(t *testing.T) {
	opts := RenderOptions{Values: map[string]any{
		"static": " 42 ",
		"number": 7,
		"csv":    "deploy_db, ,deploy_webs",
		"list":   []string{"a", " ", "b"},
		"any":    []any{"x", 1},
	}}

	if got := opts.String("static"); got != "42" {
		t.Fatalf("String(static) = %q", got)
	}
	if got := opts.String("number"); got != "7" {
		t.Fatalf("String(number) = %q", got)
	}
	if got := opts.String("missing"); got != "" {
		t.Fatalf("String(missing) = %q", got)
	}

	cases := map[string][]string{
		"csv":     {"deploy_db", "deploy_webs"},
		"list":    {"a", "b"},
		"any":     {"x", "1"},
		"number":  {"7"},
		"missing": nil,
	}
	for key, want := range cases {
		if diff := cmp.Diff(want, opts.Strings(key)); diff != "" {
			t.Errorf("Strings(%q) (-want +got):\n%s", key, diff)
		}
	}
}
