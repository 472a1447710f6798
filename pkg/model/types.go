package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
	FieldTypeChoices FieldType = "choices"
)

const (
	// MetadataOptionIDPrefix names the prefix used to build element ids for
	// individual options of a choices field ("stages" gives "stages-0").
	MetadataOptionIDPrefix = "optionIdPrefix"
	// MetadataRole tags fields with the part they play in commit
	// synchronization ("static", "stage", "commit").
	MetadataRole = "role"
)

// Option is a single entry of a select or choices field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models an individual input inside a rollout form. Struct fields are
// annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        string            `json:"name"`
	ID          string            `json:"id,omitempty"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     string            `json:"default,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ElementID returns the DOM id for the field, falling back to its name.
func (f Field) ElementID() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

// Role reports the synchronization role recorded in metadata.
func (f Field) Role() string {
	return f.Metadata[MetadataRole]
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Profile     string            `json:"profile,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
