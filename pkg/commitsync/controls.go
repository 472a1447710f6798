package commitsync

// SelectControl is the static build dropdown.
type SelectControl interface {
	SelectedText() string
	OnChange(fn func()) (remove func())
}

// Toggle is a checkbox or radio input.
type Toggle interface {
	Checked() bool
	OnChange(fn func()) (remove func())
}

// ValueToggle is a Toggle that also exposes its value attribute, which a
// guarded stage source probes before trusting the checked state.
type ValueToggle interface {
	Toggle
	Value() string
}

// TextControl is the commit text field.
type TextControl interface {
	SetValue(value string)
	SetDisabled(disabled bool)
}

// LabelControl is the commit field's label.
type LabelControl interface {
	SetText(text string)
}

// StageSource reports whether the restricted pre-live stage is selected.
type StageSource interface {
	Restricted() bool
	OnChange(fn func()) (remove func())
}

// Controls bundles everything a Synchronizer reads and writes. Label may be
// nil for profiles that do not update labels.
type Controls struct {
	Static SelectControl
	Stage  StageSource
	Commit TextControl
	Label  LabelControl
}

// FixedStage adapts a toggle known to be the restricted stage indicator.
func FixedStage(toggle Toggle) StageSource {
	return fixedStage{toggle: toggle}
}

type fixedStage struct {
	toggle Toggle
}

func (s fixedStage) Restricted() bool {
	if s.toggle == nil {
		return false
	}
	return s.toggle.Checked()
}

func (s fixedStage) OnChange(fn func()) func() {
	if s.toggle == nil {
		return func() {}
	}
	return s.toggle.OnChange(fn)
}

// GuardedStage looks up the stage element on every read and trusts its
// checked state only while its value equals want. A failed lookup or a value
// mismatch reads as not restricted. OnChange attaches to whatever element
// lookup returns, guard or not, matching the browser runtime.
func GuardedStage(lookup func() (ValueToggle, bool), want string) StageSource {
	return guardedStage{lookup: lookup, want: want}
}

type guardedStage struct {
	lookup func() (ValueToggle, bool)
	want   string
}

func (s guardedStage) Restricted() bool {
	toggle, ok := s.resolve()
	if !ok || toggle.Value() != s.want {
		return false
	}
	return toggle.Checked()
}

func (s guardedStage) OnChange(fn func()) func() {
	toggle, ok := s.resolve()
	if !ok {
		return func() {}
	}
	return toggle.OnChange(fn)
}

func (s guardedStage) resolve() (ValueToggle, bool) {
	if s.lookup == nil {
		return nil, false
	}
	toggle, ok := s.lookup()
	if !ok || toggle == nil {
		return nil, false
	}
	return toggle, true
}
