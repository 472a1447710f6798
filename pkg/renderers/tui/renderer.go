package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-rolloutform/pkg/commitref"
	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the form fields in order, so the build and stage answers are known by the
// time the commit field is reached.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       &SurveyDriver{},
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if err := r.outputFormat.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.outputFormat.ContentType()
}

// Render asks for the build, the stages and the commit, then serializes the
// answers.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if _, err := commitsync.ProfileByName(form.Profile); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	state := NewState(opts.Values)
	for _, field := range form.Fields {
		if err := r.promptField(ctx, form, field, state, opts); err != nil {
			return nil, err
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, form model.FormModel, field model.Field, state *State, opts render.RenderOptions) error {
	switch field.Role() {
	case "static":
		return r.promptBuild(ctx, form, field, state)
	case "stage":
		return r.promptStages(ctx, field, state)
	case "commit":
		return r.promptCommit(ctx, form, field, state, opts)
	}
	// Fields outside the rollout flow keep their prefilled or declared value.
	zerolog.Ctx(ctx).Debug().Str("field", field.Name).Msg("field not prompted")
	if _, ok := state.Get(field.Name); !ok && field.Default != "" {
		state.Set(field.Name, field.Default)
	}
	return nil
}

func (r *Renderer) promptBuild(ctx context.Context, form model.FormModel, field model.Field, state *State) error {
	if len(field.Options) == 0 {
		return nil
	}

	preset := render.ResolveSelection(form, render.RenderOptions{Values: state.Values()}).StaticIndex
	choices := make([]Choice, len(field.Options))
	for i, option := range field.Options {
		choices[i] = Choice{Label: option.Label, Selected: i == preset}
		if ref, err := commitref.ShortRef(commitref.Normalize(option.Label)); err == nil {
			choices[i].Hint = ref
		}
	}

	idx, err := r.driver.ChooseBuild(ctx, ChoicePrompt{Title: displayLabel(field), Help: field.Description, Choices: choices})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return fmt.Errorf("%w: %s index %d", ErrInvalidChoice, field.Name, idx)
	}
	state.Set(field.Name, field.Options[idx].Value)
	return nil
}

func (r *Renderer) promptStages(ctx context.Context, field model.Field, state *State) error {
	if len(field.Options) == 0 {
		return nil
	}

	current := render.RenderOptions{Values: state.Values()}.Strings(field.Name)
	choices := make([]Choice, len(field.Options))
	for i, option := range field.Options {
		choices[i] = Choice{Label: option.Label, Selected: slices.Contains(current, option.Value)}
	}

	indices, err := r.driver.ChooseStages(ctx, ChoicePrompt{Title: displayLabel(field), Help: field.Description, Choices: choices})
	if err != nil {
		return err
	}

	picked := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(field.Options) {
			return fmt.Errorf("%w: %s index %d", ErrInvalidChoice, field.Name, idx)
		}
		picked = append(picked, field.Options[idx].Value)
	}
	state.Set(field.Name, picked)
	return nil
}

// promptCommit derives the commit state from the answers collected so far. A
// locked commit is announced instead of prompted.
func (r *Renderer) promptCommit(ctx context.Context, form model.FormModel, field model.Field, state *State, opts render.RenderOptions) error {
	profile, _ := commitsync.ProfileByName(form.Profile)

	derived, err := render.CommitState(form, render.RenderOptions{Values: state.Values(), Strict: opts.Strict})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("form", form.ID).Msg("commit not derived from build")
		if err := r.driver.Notify(ctx, Notice{Kind: NoticeMalformed, Ref: derived.Value, Err: err}); err != nil {
			return err
		}
	}

	title := displayLabel(field)
	if profile.UpdatesLabel() && derived.Label != "" {
		title = derived.Label
	}

	if derived.Disabled {
		if err := r.driver.Notify(ctx, Notice{Kind: NoticeLocked, Title: title, Ref: derived.Value}); err != nil {
			return err
		}
		state.Set(field.Name, derived.Value)
		return nil
	}

	ref, err := r.driver.EnterCommit(ctx, CommitPrompt{Title: title, Help: field.Description, Default: derived.Value})
	if err != nil {
		return err
	}
	if ref = strings.TrimSpace(ref); ref == "" {
		ref = derived.Value
	}
	state.Set(field.Name, ref)
	return nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}


func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}


// flattenForm encodes lists as repeated keys (stages=a&stages=b), the way an
// HTML form submits a checkbox group.
func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				out.Add(key, fmt.Sprint(item))
			}
		case []string:
			for _, item := range v {
				out.Add(key, item)
			}
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(values)) {
		switch v := values[key].(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
			fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(parts, ", "))
		case []string:
			fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s: %v\n", key, v)
		}
	}
	return b.String()
}
