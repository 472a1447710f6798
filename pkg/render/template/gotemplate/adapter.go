package gotemplate

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-rolloutform/pkg/commitref"
	"github.com/goliatone/go-rolloutform/pkg/render/template"
)

// Extension is appended to template names given without one.
const Extension = ".tmpl"

// Engine is the go-template engine.
type Engine = gotemplatepkg.Engine

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds a go-template engine for rollout templates. Templates default to
// the .tmpl extension and see the shortref filter. options
// must name a template source (gotemplatepkg.WithFS or WithBaseDir) and are
// applied after the defaults, so they can override the extension.
func New(options ...gotemplatepkg.Option) (*Engine, error) {
	opts := append([]gotemplatepkg.Option{
		gotemplatepkg.WithExtension(Extension),
		gotemplatepkg.WithTemplateFunc(Filters()),
	}, options...)

	engine, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return engine, nil
}

// Filters returns the pongo2 filters rollout templates rely on.
func Filters() map[string]any {
	return map[string]any{
		"shortref": pongo2.FilterFunction(filterShortRef),
	}
}

// filterShortRef renders the commit ref a build label carries, or nothing
// for the sentinel and malformed labels.
func filterShortRef(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	normalized := commitref.Normalize(in.String())
	if commitref.IsSentinel(normalized) {
		return pongo2.AsValue(""), nil
	}
	ref, err := commitref.ShortRef(normalized)
	if err != nil {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(ref)), nil
}
