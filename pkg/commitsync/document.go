package commitsync

import (
	"fmt"

	"github.com/goliatone/go-rolloutform/pkg/dom"
)

// Bind resolves the profile's selectors against doc. Static, commit and (for
// label-updating profiles) label elements must exist. The stage indicator is
// resolved once into a FixedStage unless the profile sets a StageGuard, in
// which case the selector is probed on every read.
func Bind(doc *dom.Document, profile Profile) (Controls, error) {
	if doc == nil {
		return Controls{}, fmt.Errorf("%w: document is nil", ErrMissingControl)
	}
	sel := profile.Selectors

	static, err := doc.Query(sel.Static)
	if err != nil {
		return Controls{}, fmt.Errorf("%w: static build select: %w", ErrMissingControl, err)
	}
	commit, err := doc.Query(sel.Commit)
	if err != nil {
		return Controls{}, fmt.Errorf("%w: commit field: %w", ErrMissingControl, err)
	}

	controls := Controls{Static: static, Commit: commit}

	if profile.UpdatesLabel() {
		label, err := doc.Query(sel.Label)
		if err != nil {
			return Controls{}, fmt.Errorf("%w: commit label: %w", ErrMissingControl, err)
		}
		controls.Label = label
	}

	if profile.StageGuard != "" {
		selector := sel.Stage
		controls.Stage = GuardedStage(func() (ValueToggle, bool) {
			el, err := doc.Query(selector)
			if err != nil {
				return nil, false
			}
			return el, true
		}, profile.StageGuard)
		return controls, nil
	}

	stage, err := doc.Query(sel.Stage)
	if err != nil {
		return Controls{}, fmt.Errorf("%w: stage indicator: %w", ErrMissingControl, err)
	}
	controls.Stage = FixedStage(stage)
	return controls, nil
}

// MountDocument binds doc with the configured profile, mounts a
// Synchronizer and returns it.
func MountDocument(doc *dom.Document, options ...Option) (*Synchronizer, error) {
	probe := &Synchronizer{profile: DefaultProfile}
	for _, opt := range options {
		if opt != nil {
			opt(probe)
		}
	}

	controls, err := Bind(doc, probe.profile)
	if err != nil {
		return nil, err
	}
	s, err := New(controls, options...)
	if err != nil {
		return nil, err
	}
	if err := s.Mount(); err != nil {
		return nil, err
	}
	return s, nil
}
