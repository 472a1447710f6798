package commitsync

import (
	"github.com/goliatone/go-rolloutform/pkg/commitref"
)

// Branch names the outcome of a derivation.
type Branch string

const (
	// BranchStaticRestricted is a static build paired with the restricted
	// stage; the commit follows Profile.DisableRestricted.
	BranchStaticRestricted Branch = "static-restricted"
	// BranchStatic is a static build with the restricted stage unchecked;
	// the commit follows Profile.DisableUnrestricted.
	BranchStatic Branch = "static"
	// BranchDefault is the sentinel option: the commit is the profile's
	// DefaultRef and stays editable.
	BranchDefault Branch = "default"
)

// Inputs are the control readings a derivation depends on.
type Inputs struct {
	OptionText string `json:"optionText"`
	Restricted bool   `json:"restricted"`
}

// State is the derived commit field state.
type State struct {
	Branch   Branch `json:"branch"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
	// Label is meaningful only when the profile updates labels.
	Label string `json:"label,omitempty"`
}

// Derive computes the commit field state for in under profile. Option text
// that is not the sentinel must carry a short reference; otherwise the
// commitref error is returned and the state is zero.
func Derive(profile Profile, in Inputs) (State, error) {
	normalized := commitref.Normalize(in.OptionText)

	if commitref.IsSentinel(normalized) {
		return profile.defaultState(), nil
	}

	ref, err := commitref.ShortRef(normalized)
	if err != nil {
		return State{}, err
	}

	if in.Restricted {
		state := State{Branch: BranchStaticRestricted, Value: ref, Disabled: profile.DisableRestricted}
		if profile.Labels != nil {
			state.Label = profile.Labels.Restricted
		}
		return state, nil
	}

	state := State{Branch: BranchStatic, Value: ref, Disabled: profile.DisableUnrestricted}
	if profile.Labels != nil {
		state.Label = profile.Labels.Unrestricted
	}
	return state, nil
}

func (p Profile) defaultState() State {
	state := State{Branch: BranchDefault, Value: p.DefaultRef}
	if p.Labels != nil {
		state.Label = p.Labels.Default
	}
	return state
}
