package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-rolloutform/pkg/model"
)

// Transformer mutates a FormModel before it is rendered.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative copy overrides loaded from JSON or
// YAML:
//
//	title: Webs rollout
//	fields:
//	  static:
//	    label: Static bundle
//	  commit:
//	    placeholder: sha or branch
//
// Field names and ids are left alone; the commit synchronizer finds controls
// by them.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description" yaml:"description"`
	Metadata    map[string]string     `json:"metadata" yaml:"metadata"`
	Fields      map[string]fieldPatch `json:"fields" yaml:"fields"`
}

type fieldPatch struct {
	Label       string            `json:"label" yaml:"label"`
	Description string            `json:"description" yaml:"description"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// NewPresetTransformer parses data as JSON, falling back to YAML.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}

	var document presetDocument
	if jsonErr := json.Unmarshal(trimmed, &document); jsonErr != nil {
		document = presetDocument{}
		if yamlErr := yaml.Unmarshal(trimmed, &document); yamlErr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", errors.Join(jsonErr, yamlErr))
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches onto form. Patching an unknown field is an
// error.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}
	if len(t.document.Metadata) > 0 {
		form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)
	}

	for name, patch := range t.document.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if len(patch.Metadata) > 0 {
		// role and option ids are derived from the definition
		patched := maps.Clone(patch.Metadata)
		delete(patched, model.MetadataRole)
		delete(patched, model.MetadataOptionIDPrefix)
		field.Metadata = mergeStringMap(field.Metadata, patched)
	}
}

func findField(fields []model.Field, name string) *model.Field {
	name = strings.TrimSpace(name)
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
