package gotemplate_test

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-rolloutform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rolloutform/pkg/testsupport"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/build.tmpl": {Data: []byte(`{{ label }}={{ label|shortref }}`)},
		"templates/list.tmpl":  {Data: []byte(`{% for item in items %}[{{ item.label }}]{% endfor %}`)},
		"templates/title.tmpl": {Data: []byte(`{{ title|trim }}{% if env %} ({{ env }}){% endif %}`)},
		"templates/other.html": {Data: []byte(`html {{ title }}`)},
	}
}

func TestShortRefFilter(t *testing.T) {
	engine, err := gotemplate.New(gotemplatepkg.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	tests := []struct {
		label string
		want  string
	}{
		{label: testsupport.StaticBuildLabel, want: testsupport.StaticBuildLabel + "=" + testsupport.StaticBuildRef},
		{label: "No new static", want: "No new static="},
		{label: testsupport.PendingBuildLabel, want: testsupport.PendingBuildLabel + "="},
		{label: " BUILD - A - B - C - xyz9) extra ", want: " BUILD - A - B - C - xyz9) extra =xyz9"},
	}
	for _, tt := range tests {
		got, err := engine.RenderTemplate("templates/build", map[string]any{"label": tt.label})
		if err != nil {
			t.Fatalf("render %q: %v", tt.label, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("label %q (-want +got):\n%s", tt.label, diff)
		}
	}
}

func TestRenderTemplateStructData(t *testing.T) {
	engine, err := gotemplate.New(gotemplatepkg.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type item struct {
		Label string `json:"label"`
	}
	data := struct {
		Items []item `json:"items"`
	}{Items: []item{{Label: "deploy_db"}, {Label: "deploy_webs"}}}

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("templates/list.tmpl", data, w)
	})
	if diff := cmp.Diff("[deploy_db][deploy_webs]", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if written != got {
		t.Fatalf("writer received %q, want %q", written, got)
	}
}

func TestEngineOptionsOverrideDefaults(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplatepkg.WithFS(testFS()),
		gotemplatepkg.WithGlobalData(map[string]any{"env": "prelive"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("templates/title", map[string]any{"title": "  Webs rollout "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Webs rollout (prelive)" {
		t.Fatalf("unexpected output %q", got)
	}

	html, err := gotemplate.New(gotemplatepkg.WithFS(testFS()), gotemplatepkg.WithExtension("html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err = html.RenderTemplate("templates/other", map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("render with extension override: %v", err)
	}
	if got != "html x" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestMissingTemplate(t *testing.T) {
	engine, err := gotemplate.New(gotemplatepkg.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("templates/missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
