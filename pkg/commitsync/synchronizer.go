package commitsync

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithProfile selects the synchronization profile.
func WithProfile(profile Profile) Option {
	return func(s *Synchronizer) {
		s.profile = profile
	}
}

// WithLogger sets the logger used for change handling.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithStrict makes change handlers reset the commit field to the profile
// default when the selected option carries no short reference. Without it a
// failed derivation leaves the field as it was.
func WithStrict(strict bool) Option {
	return func(s *Synchronizer) {
		s.strict = strict
	}
}

// WithSyncOnMount runs one synchronization right after listeners are
// registered.
func WithSyncOnMount(enabled bool) Option {
	return func(s *Synchronizer) {
		s.syncOnMount = enabled
	}
}

// Synchronizer derives and applies commit field state on control changes.
type Synchronizer struct {
	controls    Controls
	profile     Profile
	logger      zerolog.Logger
	strict      bool
	syncOnMount bool

	mu      sync.Mutex
	mounted bool
	removes []func()
}

// New validates controls and returns an unmounted Synchronizer.
func New(controls Controls, options ...Option) (*Synchronizer, error) {
	s := &Synchronizer{
		controls: controls,
		profile:  DefaultProfile,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	switch {
	case controls.Static == nil:
		return nil, fmt.Errorf("%w: static build select", ErrMissingControl)
	case controls.Stage == nil:
		return nil, fmt.Errorf("%w: stage indicator", ErrMissingControl)
	case controls.Commit == nil:
		return nil, fmt.Errorf("%w: commit field", ErrMissingControl)
	case controls.Label == nil && s.profile.UpdatesLabel():
		return nil, fmt.Errorf("%w: commit label (profile %q updates labels)", ErrMissingControl, s.profile.Name)
	}

	s.logger = s.logger.With().Str("component", "commitsync").Str("profile", s.profile.Name).Logger()
	return s, nil
}

// Profile returns the active profile.
func (s *Synchronizer) Profile() Profile {
	return s.profile
}

// Mount registers change listeners on the static select and the stage
// indicator.
func (s *Synchronizer) Mount() error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	s.removes = append(s.removes,
		s.controls.Static.OnChange(func() { s.handleChange("static") }),
		s.controls.Stage.OnChange(func() { s.handleChange("stage") }),
	)
	s.mu.Unlock()

	s.logger.Debug().Msg("mounted")
	if s.syncOnMount {
		s.handleChange("mount")
	}
	return nil
}

// Unmount removes the listeners registered by Mount. It is a no-op when not
// mounted.
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	removes := s.removes
	s.removes = nil
	wasMounted := s.mounted
	s.mounted = false
	s.mu.Unlock()

	for _, remove := range removes {
		if remove != nil {
			remove()
		}
	}
	if wasMounted {
		s.logger.Debug().Msg("unmounted")
	}
}

// Mounted reports whether listeners are registered.
func (s *Synchronizer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Read returns the current control readings.
func (s *Synchronizer) Read() Inputs {
	return Inputs{
		OptionText: s.controls.Static.SelectedText(),
		Restricted: s.controls.Stage.Restricted(),
	}
}

// Sync reads the controls, derives the commit state and applies it. On a
// derivation error nothing is written and the error is returned.
func (s *Synchronizer) Sync() (State, error) {
	in := s.Read()
	state, err := Derive(s.profile, in)
	if err != nil {
		return State{}, fmt.Errorf("commitsync: derive from %q: %w", in.OptionText, err)
	}
	s.apply(state)
	return state, nil
}

// Reset applies the profile default state regardless of control readings.
func (s *Synchronizer) Reset() State {
	state := s.profile.defaultState()
	s.apply(state)
	return state
}

func (s *Synchronizer) apply(state State) {
	s.controls.Commit.SetValue(state.Value)
	s.controls.Commit.SetDisabled(state.Disabled)
	if s.profile.UpdatesLabel() && s.controls.Label != nil {
		s.controls.Label.SetText(state.Label)
	}
}

func (s *Synchronizer) handleChange(source string) {
	state, err := s.Sync()
	if err != nil {
		if s.strict {
			state = s.Reset()
			s.logger.Warn().Err(err).Str("source", source).Str("value", state.Value).Msg("commit reset to default")
			return
		}
		s.logger.Warn().Err(err).Str("source", source).Msg("commit left unchanged")
		return
	}
	s.logger.Debug().
		Str("source", source).
		Str("branch", string(state.Branch)).
		Str("value", state.Value).
		Bool("disabled", state.Disabled).
		Msg("commit synchronized")
}
