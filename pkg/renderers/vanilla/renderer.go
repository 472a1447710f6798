package vanilla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/render"
	rendertemplate "github.com/goliatone/go-rolloutform/pkg/render/template"
	gotemplate "github.com/goliatone/go-rolloutform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla/components"
)

type Option func(*config)

type runtimeMode int

const (
	runtimeLinked runtimeMode = iota
	runtimeInline
	runtimeNone
)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	policy           *bluemonday.Policy

	runtime       runtimeMode
	runtimeSrc    string
	syncOnMount   bool
	stylesheets   []string
	defaultStyles bool
	action        string
	submitLabel   string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLabelPolicy overrides the bluemonday policy option labels pass through.
func WithLabelPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithRuntimeScript links the commit runtime from src instead of
// components.DefaultRuntimeScript.
func WithRuntimeScript(src string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			cfg.runtime = runtimeLinked
			cfg.runtimeSrc = trimmed
		}
	}
}

// WithInlineRuntime embeds the commit runtime in the page.
func WithInlineRuntime() Option {
	return func(cfg *config) {
		cfg.runtime = runtimeInline
	}
}

// WithoutRuntime omits the commit runtime and its profile config.
func WithoutRuntime() Option {
	return func(cfg *config) {
		cfg.runtime = runtimeNone
	}
}

// WithSyncOnMount asks the browser runtime to synchronize once after mount.
func WithSyncOnMount(enabled bool) Option {
	return func(cfg *config) {
		cfg.syncOnMount = enabled
	}
}

// WithStylesheet links an additional stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.defaultStyles = true
	}
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithSubmitLabel overrides the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cfg.submitLabel = trimmed
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	policy    *bluemonday.Policy

	runtime      runtimeMode
	syncOnMount  bool
	stylesheets  []string
	inlineStyles string
	action       string
	submitLabel  string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Create rollout"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplatepkg.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	registry = registry.Clone()

	var err error
	switch cfg.runtime {
	case runtimeInline:
		err = registry.SetScripts(components.NameCommit, components.Script{Inline: readAsset(RuntimeScriptName)})
	case runtimeNone:
		err = registry.SetScripts(components.NameCommit)
	default:
		if cfg.runtimeSrc != "" {
			err = registry.SetScripts(components.NameCommit, components.Script{Src: cfg.runtimeSrc, Defer: true})
		}
	}
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: configure runtime: %w", err)
	}

	policy := cfg.policy
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}

	r := &Renderer{
		templates:   renderer,
		registry:    registry,
		policy:      policy,
		runtime:     cfg.runtime,
		syncOnMount: cfg.syncOnMount,
		stylesheets: cfg.stylesheets,
		action:      cfg.action,
		submitLabel: cfg.submitLabel,
	}
	if cfg.defaultStyles {
		r.inlineStyles = readAsset(StylesheetName)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form as HTML. The commit field is rendered in the state
// derived from the preselected build and stages; a preselected build without
// a short ref is logged and leaves the field at its default.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	profile, err := commitsync.ProfileByName(form.Profile)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	state, err := render.CommitState(form, opts)
	if err != nil {
		if errors.Is(err, commitsync.ErrUnknownProfile) {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("form", form.ID).Msg("initial commit left at default")
	}

	fields := &componentRenderer{
		templates: r.templates,
		registry:  r.registry,
		policy:    r.policy,
		options:   opts,
		selection: render.ResolveSelection(form, opts),
		commit:    state,
		labels:    profile.UpdatesLabel(),
	}

	var markup strings.Builder
	for _, field := range form.Fields {
		out, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup.WriteString(out)
	}

	stylesheets, scripts := fields.assets()
	stylesheets = append(stylesheets, r.stylesheets...)

	var profileJSON string
	if r.runtime != runtimeNone {
		payload, err := json.Marshal(runtimeConfig{Profile: profile, Strict: opts.Strict, SyncOnMount: r.syncOnMount})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: encode runtime config: %w", err)
		}
		profileJSON = string(payload)
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form": map[string]any{
			"id":               form.ID,
			"title":            form.Title,
			"description":      form.Description,
			"profile":          profile.Name,
			"restricted_stage": form.Metadata["restrictedStage"],
		},
		"fields":        markup.String(),
		"stylesheets":   stylesheets,
		"inline_styles": r.inlineStyles,
		"scripts":       scriptViews(scripts),
		"profile_json":  profileJSON,
		"action":        r.action,
		"submit_label":  r.submitLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// runtimeConfig is read by commitsync.js from #commitsync-profile.
type runtimeConfig struct {
	Profile     commitsync.Profile `json:"profile"`
	Strict      bool               `json:"strict"`
	SyncOnMount bool               `json:"syncOnMount"`
}

func scriptViews(scripts []components.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, map[string]any{
			"src":    script.Src,
			"inline": script.Inline,
			"defer":  script.Defer,
		})
	}
	return out
}
