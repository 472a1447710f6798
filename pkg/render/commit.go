package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/model"
)

// Selection is the preselected state of the synchronizing controls.
type Selection struct {
	// StaticIndex indexes the static field's options; 0 is the sentinel.
	StaticIndex int
	StaticText  string
	Stages      []string
	Restricted  bool
}

// ResolveSelection maps opts onto the form's static and stage fields.
func ResolveSelection(form model.FormModel, opts RenderOptions) Selection {
	var sel Selection

	if static, ok := fieldByRole(form, "static"); ok && len(static.Options) > 0 {
		sel.StaticText = static.Options[0].Label
		if want := opts.String(static.Name); want != "" {
			for i, option := range static.Options {
				if option.Value == want || strings.EqualFold(strings.TrimSpace(option.Label), want) {
					sel.StaticIndex = i
					sel.StaticText = option.Label
					break
				}
			}
		}
	}

	restricted := form.Metadata["restrictedStage"]
	if restricted == "" {
		restricted = commitsync.RestrictedStageValue
	}
	if stages, ok := fieldByRole(form, "stage"); ok {
		sel.Stages = opts.Strings(stages.Name)
	}
	sel.Restricted = slices.Contains(sel.Stages, restricted)
	return sel
}

// CommitState derives the commit field's initial state for opts. When the
// preselected build label carries no short ref the commit field keeps its
// declared default (or, with opts.Strict, the profile default) and the derive
// error is returned alongside that state.
func CommitState(form model.FormModel, opts RenderOptions) (commitsync.State, error) {
	profile, err := commitsync.ProfileByName(form.Profile)
	if err != nil {
		return commitsync.State{}, fmt.Errorf("render: %w", err)
	}

	sel := ResolveSelection(form, opts)
	state, derr := commitsync.Derive(profile, commitsync.Inputs{
		OptionText: sel.StaticText,
		Restricted: sel.Restricted,
	})
	if derr == nil {
		if explicit := opts.String("commit"); explicit != "" && !state.Disabled {
			state.Value = explicit
		}
		return state, nil
	}

	fallback, _ := commitsync.Derive(profile, commitsync.Inputs{OptionText: "no new static"})
	if !opts.Strict {
		if commit, ok := fieldByRole(form, "commit"); ok {
			fallback.Value = commit.Default
			if profile.Labels != nil && commit.Label != "" {
				fallback.Label = commit.Label
			}
		}
	}
	return fallback, fmt.Errorf("render: commit state: %w", derr)
}

func fieldByRole(form model.FormModel, role string) (model.Field, bool) {
	for _, field := range form.Fields {
		if field.Role() == role {
			return field, true
		}
	}
	return model.Field{}, false
}
