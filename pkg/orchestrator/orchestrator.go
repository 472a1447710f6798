package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/render"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla"
	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

const defaultRendererName = "vanilla"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefinitions resolves Request.DefinitionID against store.
func WithDefinitions(store *rollout.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithDefinitionsFS loads every definition file under fsys.
func WithDefinitionsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		store, err := rollout.LoadFS(fsys)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load definitions: %w", err)
			return
		}
		o.store = store
	}
}

// WithRegistry supplies the renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithDefaultRenderer names the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.defaultRenderer = trimmed
		}
	}
}

// WithTransformer runs t on every form model before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator resolves a rollout definition, builds its form model and
// renders it. The zero configuration renders the stock definition with the
// vanilla renderer.
type Orchestrator struct {
	store           *rollout.Store
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil && o.initialiseErr == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else if err := o.registry.Register(renderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		}
	}
	return o
}

// Request describes one render.
type Request struct {
	// Definition is rendered as-is when set.
	Definition *rollout.Definition
	// DefinitionID is looked up in the configured store when Definition is
	// nil. With neither set the stock definition is used.
	DefinitionID string
	// Profile overrides the definition's commit synchronization profile.
	Profile string
	// Renderer names the renderer; empty uses the default renderer.
	Renderer      string
	RenderOptions render.RenderOptions
}

// Form resolves the definition for req and builds its form model, running the
// configured transformer.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if o.initialiseErr != nil {
		return model.FormModel{}, o.initialiseErr
	}

	def, err := o.resolveDefinition(req)
	if err != nil {
		return model.FormModel{}, err
	}
	if profile := strings.TrimSpace(req.Profile); profile != "" {
		def.Profile = profile
	}

	form, err := def.Form()
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("form", form.ID).
		Str("profile", form.Profile).
		Int("builds", len(def.Builds)).
		Msg("form model built")
	return form, nil
}

// Generate builds the form for req and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer resolves name, falling back to the default renderer and then to
// the first registered one.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) resolveDefinition(req Request) (rollout.Definition, error) {
	if req.Definition != nil {
		return *req.Definition, nil
	}
	if req.DefinitionID == "" {
		return rollout.DefaultDefinition(), nil
	}
	if o.store == nil {
		return rollout.Definition{}, fmt.Errorf("orchestrator: definition %q requested but no definitions are loaded", req.DefinitionID)
	}
	def, ok := o.store.Definition(req.DefinitionID)
	if !ok {
		return rollout.Definition{}, fmt.Errorf("orchestrator: definition %q not found (available: %s)",
			req.DefinitionID, strings.Join(o.store.IDs(), ", "))
	}
	return def, nil
}
