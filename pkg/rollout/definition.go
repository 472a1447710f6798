// Package rollout describes rollout request forms and builds them into
// model.FormModel values. A Definition lists the static builds offered in the
// dropdown, the deploy stages and the commit synchronization profile.
package rollout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-rolloutform/pkg/commitref"
	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/model"
)

const (
	FieldStatic = "static"
	FieldStages = "stages"
	FieldCommit = "commit"

	// SentinelLabel is the first dropdown entry, meaning no static build.
	SentinelLabel = "No new static"
)

var (
	// ErrInvalidDefinition wraps every validation failure.
	ErrInvalidDefinition = errors.New("rollout: invalid definition")
	// ErrStageLayout reports a restricted stage the profile's selector cannot
	// reach.
	ErrStageLayout = errors.New("rollout: restricted stage not where the profile expects it")
)

// Build is one static build offered in the dropdown.
type Build struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Stage is one deploy stage checkbox.
type Stage struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// CommitField customises the commit input.
type CommitField struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Definition describes a rollout form.
type Definition struct {
	ID              string      `json:"id" yaml:"id"`
	Title           string      `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
	Profile         string      `json:"profile,omitempty" yaml:"profile,omitempty"`
	Builds          []Build     `json:"builds" yaml:"builds"`
	Stages          []Stage     `json:"stages" yaml:"stages"`
	RestrictedStage string      `json:"restrictedStage,omitempty" yaml:"restrictedStage,omitempty"`
	Commit          CommitField `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// DefaultDefinition mirrors the stock rollout form: seven stages with the
// pre-live webs deploy last, so it renders as #stages-6.
func DefaultDefinition() Definition {
	return Definition{
		ID:      "rollout",
		Title:   "New rollout",
		Profile: commitsync.DefaultProfile.Name,
		Stages: []Stage{
			{Value: "deploy_db"},
			{Value: "deploy_app"},
			{Value: "deploy_cron"},
			{Value: "deploy_workers"},
			{Value: "deploy_static"},
			{Value: "deploy_webs"},
			{Value: commitsync.RestrictedStageValue, Label: "Deploy only pre-live webs"},
		},
	}
}

// ResolvedProfile returns the commit synchronization profile the definition
// names.
func (d Definition) ResolvedProfile() (commitsync.Profile, error) {
	return commitsync.ProfileByName(d.Profile)
}

// RestrictedStageValue returns the configured restricted stage value.
func (d Definition) RestrictedStageValue() string {
	if v := strings.TrimSpace(d.RestrictedStage); v != "" {
		return v
	}
	return commitsync.RestrictedStageValue
}

// StageID returns the element id of the stage at index.
func StageID(index int) string {
	return FieldStages + "-" + strconv.Itoa(index)
}

// Validate checks structural invariants.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDefinition)
	}

	profile, err := d.ResolvedProfile()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	for i, build := range d.Builds {
		if strings.TrimSpace(build.Label) == "" {
			return fmt.Errorf("%w: build %d has no label", ErrInvalidDefinition, i)
		}
		if commitref.IsSentinel(commitref.Normalize(build.Label)) {
			return fmt.Errorf("%w: build %d reuses the %q sentinel", ErrInvalidDefinition, i, SentinelLabel)
		}
	}

	restricted := d.RestrictedStageValue()
	restrictedIndex := -1
	seen := make(map[string]struct{}, len(d.Stages))
	for i, stage := range d.Stages {
		value := strings.TrimSpace(stage.Value)
		if value == "" {
			return fmt.Errorf("%w: stage %d has no value", ErrInvalidDefinition, i)
		}
		if _, dup := seen[value]; dup {
			return fmt.Errorf("%w: duplicate stage %q", ErrInvalidDefinition, value)
		}
		seen[value] = struct{}{}
		if value == restricted {
			restrictedIndex = i
		}
	}
	if restrictedIndex < 0 {
		return fmt.Errorf("%w: restricted stage %q is not listed", ErrInvalidDefinition, restricted)
	}

	if profile.StageGuard != "" && profile.StageGuard != restricted {
		return fmt.Errorf("%w: profile %q guards on %q, definition restricts %q",
			ErrStageLayout, profile.Name, profile.StageGuard, restricted)
	}
	if id, ok := strings.CutPrefix(profile.Selectors.Stage, "#"); ok {
		if id != StageID(restrictedIndex) {
			return fmt.Errorf("%w: profile %q reads #%s, stage %q renders as #%s",
				ErrStageLayout, profile.Name, id, restricted, StageID(restrictedIndex))
		}
	} else if !strings.Contains(profile.Selectors.Stage, "="+restricted+"]") {
		return fmt.Errorf("%w: profile %q selects %s, definition restricts %q",
			ErrStageLayout, profile.Name, profile.Selectors.Stage, restricted)
	}
	return nil
}

// Form builds the form model for the definition.
func (d Definition) Form() (model.FormModel, error) {
	if err := d.Validate(); err != nil {
		return model.FormModel{}, err
	}
	profile, _ := d.ResolvedProfile()

	buildOptions := make([]model.Option, 0, len(d.Builds)+1)
	buildOptions = append(buildOptions, model.Option{Value: "", Label: SentinelLabel})
	for _, build := range d.Builds {
		label := strings.TrimSpace(build.Label)
		value := strings.TrimSpace(build.Value)
		if value == "" {
			value = label
		}
		buildOptions = append(buildOptions, model.Option{Value: value, Label: label})
	}

	stageOptions := make([]model.Option, 0, len(d.Stages))
	for _, stage := range d.Stages {
		label := strings.TrimSpace(stage.Label)
		if label == "" {
			label = model.DefaultLabeler(stage.Value)
		}
		stageOptions = append(stageOptions, model.Option{Value: strings.TrimSpace(stage.Value), Label: label})
	}

	commitLabel := strings.TrimSpace(d.Commit.Label)
	if commitLabel == "" {
		commitLabel = "Commit"
		if profile.Labels != nil {
			commitLabel = profile.Labels.Default
		}
	}

	return model.FormModel{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Profile:     profile.Name,
		Fields: []model.Field{
			{
				Name:     FieldStatic,
				ID:       FieldStatic,
				Type:     model.FieldTypeSelect,
				Label:    "Static build",
				Options:  buildOptions,
				Metadata: map[string]string{model.MetadataRole: "static"},
			},
			{
				Name:    FieldStages,
				ID:      FieldStages,
				Type:    model.FieldTypeChoices,
				Label:   "Stages",
				Options: stageOptions,
				Metadata: map[string]string{
					model.MetadataRole:           "stage",
					model.MetadataOptionIDPrefix: FieldStages,
				},
			},
			{
				Name:        FieldCommit,
				ID:          FieldCommit,
				Type:        model.FieldTypeString,
				Label:       commitLabel,
				Placeholder: d.Commit.Placeholder,
				Description: d.Commit.Description,
				Default:     profile.DefaultRef,
				Metadata:    map[string]string{model.MetadataRole: "commit"},
			},
		},
		Metadata: map[string]string{
			"restrictedStage": d.RestrictedStageValue(),
		},
	}, nil
}
