package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla/components"
)

// resolveComponentName picks the component for field. Commit synchronization
// roles win over the field type.
func resolveComponentName(field model.Field) string {
	if field.Role() == "commit" {
		return components.NameCommit
	}
	switch field.Type {
	case model.FieldTypeSelect:
		return components.NameSelect
	case model.FieldTypeChoices:
		return components.NameChoices
	default:
		return components.NameInput
	}
}

// labelSupportsFor reports whether the field label can point at a single
// control; choices render one label per option instead.
func labelSupportsFor(componentName string) bool {
	return strings.TrimSpace(componentName) != components.NameChoices
}

// optionID builds the element id of a choices option ("stages-0").
func optionID(field model.Field, index int) string {
	prefix := strings.TrimSpace(field.Metadata[model.MetadataOptionIDPrefix])
	if prefix == "" {
		prefix = field.ElementID()
	}
	return prefix + "-" + strconv.Itoa(index)
}
