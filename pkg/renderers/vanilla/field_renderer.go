package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/render"
	"github.com/goliatone/go-rolloutform/pkg/render/template"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla/components"
)

// componentRenderer renders the fields of one form. It is built per Render
// call and carries the resolved control state.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	policy    *bluemonday.Policy

	options   render.RenderOptions
	selection render.Selection
	commit    commitsync.State
	labels    bool

	usedComponents []string
}

func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := resolveComponentName(field)

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	data := components.ComponentData{
		Template: r.templates,
		View:     r.view(field, componentName),
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}

	if !slices.Contains(r.usedComponents, componentName) {
		r.usedComponents = append(r.usedComponents, componentName)
	}

	return buildFieldMarkup(field, componentName, r.labelText(field), control.String()), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	return r.registry.Assets(r.usedComponents)
}

func (r *componentRenderer) view(field model.Field, componentName string) map[string]any {
	view := map[string]any{
		"id":       field.ElementID(),
		"name":     field.Name,
		"disabled": field.Disabled,
	}

	switch componentName {
	case components.NameSelect:
		selected := r.selectedIndex(field)
		options := make([]map[string]any, 0, len(field.Options))
		for i, option := range field.Options {
			options = append(options, map[string]any{
				"value":    option.Value,
				"label":    r.policy.Sanitize(option.Label),
				"selected": i == selected,
			})
		}
		view["options"] = options
	case components.NameChoices:
		checked := r.options.Strings(field.Name)
		if field.Role() == "stage" {
			checked = r.selection.Stages
		}
		options := make([]map[string]any, 0, len(field.Options))
		for i, option := range field.Options {
			options = append(options, map[string]any{
				"id":      optionID(field, i),
				"value":   option.Value,
				"label":   r.policy.Sanitize(option.Label),
				"checked": slices.Contains(checked, option.Value),
			})
		}
		view["options"] = options
	case components.NameCommit:
		view["type"] = "text"
		view["value"] = r.commit.Value
		view["disabled"] = r.commit.Disabled
		view["placeholder"] = field.Placeholder
	default:
		view["placeholder"] = field.Placeholder
		if field.Type == model.FieldTypeBoolean {
			view["type"] = "checkbox"
			view["checked"] = isTruthy(r.options.String(field.Name), field.Default)
			break
		}
		view["type"] = "text"
		value := r.options.String(field.Name)
		if value == "" {
			value = field.Default
		}
		view["value"] = value
	}
	return view
}

func (r *componentRenderer) selectedIndex(field model.Field) int {
	if field.Role() == "static" {
		return r.selection.StaticIndex
	}
	want := r.options.String(field.Name)
	if want == "" {
		want = field.Default
	}
	for i, option := range field.Options {
		if option.Value == want {
			return i
		}
	}
	return 0
}

func (r *componentRenderer) labelText(field model.Field) string {
	if field.Role() == "commit" && r.labels && r.commit.Label != "" {
		return r.commit.Label
	}
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func isTruthy(value, fallback string) bool {
	if value == "" {
		value = fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func buildFieldMarkup(field model.Field, componentName, label, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`  <div class="rf-field" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString("\">\n")

	if labelSupportsFor(componentName) {
		builder.WriteString(`    <label class="rf-label" for="`)
		builder.WriteString(html.EscapeString(field.ElementID()))
		builder.WriteString(`">`)
	} else {
		builder.WriteString(`    <span class="rf-legend">`)
	}
	builder.WriteString(html.EscapeString(label))
	if labelSupportsFor(componentName) {
		builder.WriteString("</label>\n")
	} else {
		builder.WriteString("</span>\n")
	}

	builder.WriteString("    ")
	builder.WriteString(strings.TrimSpace(control))
	builder.WriteByte('\n')

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString(`    <p class="rf-help">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</p>\n")
	}
	builder.WriteString("  </div>\n")
	return builder.String()
}
