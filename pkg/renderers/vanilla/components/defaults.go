package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-rolloutform/pkg/model"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer. The commit component renders as a
// plain input and pulls in the browser runtime that keeps it synchronized.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "input.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "select.tmpl"),
	})
	registry.MustRegister(NameChoices, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "choices.tmpl"),
	})
	registry.MustRegister(NameCommit, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "input.tmpl"),
		Scripts:  []Script{{Src: DefaultRuntimeScript, Defer: true}},
	})

	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload := map[string]any{
			"field": field,
			"view":  data.View,
		}
		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
