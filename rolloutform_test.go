package rolloutform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

func TestRuntimeAssetsFSContainsCommitRuntime(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), "commitsync.js")
	if err != nil {
		t.Fatalf("expected runtime bundle to be readable: %v", err)
	}
	if !strings.Contains(string(data), "RolloutCommitSync") {
		t.Fatalf("expected runtime to export RolloutCommitSync")
	}
}

func TestEmbeddedTemplatesContainsForm(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	def := rollout.DefaultDefinition()
	def.Builds = []rollout.Build{{Value: "42", Label: "Static 42 (webs-static-42-20240109-abcd123)"}}

	out, err := GenerateHTML(context.Background(), def, "", RenderOptions{Values: map[string]any{"static": "42"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `id="commit"`) || !strings.Contains(html, `value="abcd123"`) {
		t.Fatalf("expected derived commit in output:\n%s", html)
	}
}
