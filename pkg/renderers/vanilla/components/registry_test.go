package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rolloutform/pkg/model"
)

func noopRenderer(*bytes.Buffer, model.Field, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("test", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("test")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryRejectsNilRenderer(t *testing.T) {
	if err := New().Register("broken", Descriptor{}); err == nil {
		t.Fatalf("expected nil renderer to be rejected")
	}
	if err := New().Register("  ", Descriptor{Renderer: noopRenderer}); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister("input", Descriptor{
		Renderer:    noopRenderer,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister("commit", Descriptor{
		Renderer:    noopRenderer,
		Stylesheets: []string{"/shared.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/commit.js", Defer: true}},
	})

	styles, scripts := reg.Assets([]string{"input", "commit", "missing"})
	if diff := cmp.Diff([]string{"/shared.css", "/input.css"}, styles); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	want := []Script{{Src: "/shared.js"}, {Src: "/commit.js", Defer: true}}
	if diff := cmp.Diff(want, scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrySetScripts(t *testing.T) {
	reg := NewDefaultRegistry().Clone()
	if err := reg.SetScripts(NameCommit, Script{Inline: "init()"}); err != nil {
		t.Fatalf("set scripts: %v", err)
	}

	desc, _ := reg.Descriptor(NameCommit)
	if diff := cmp.Diff([]Script{{Inline: "init()"}}, desc.Scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}

	pristine, _ := NewDefaultRegistry().Descriptor(NameCommit)
	if pristine.Scripts[0].Src != DefaultRuntimeScript {
		t.Fatalf("default registry changed: %#v", pristine.Scripts)
	}

	if err := reg.SetScripts("unknown"); err == nil {
		t.Fatalf("expected error for unknown component")
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	got := NewDefaultRegistry().Names()
	want := []string{NameChoices, NameCommit, NameInput, NameSelect}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
