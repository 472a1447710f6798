package commitsync

import (
	"fmt"
	"sort"
	"strings"
)

// RestrictedStageValue is the stage value of the pre-live webs deploy.
const RestrictedStageValue = "deploy_only_prelive_webs"

// Labels holds the commit label text per branch.
type Labels struct {
	Restricted   string `json:"restricted" yaml:"restricted"`
	Unrestricted string `json:"unrestricted" yaml:"unrestricted"`
	Default      string `json:"default" yaml:"default"`
}

// Selectors locate the controls inside a document.
type Selectors struct {
	Static string `json:"static" yaml:"static"`
	Stage  string `json:"stage" yaml:"stage"`
	Commit string `json:"commit" yaml:"commit"`
	Label  string `json:"label" yaml:"label"`
}

// Profile is a named commit synchronization behaviour.
type Profile struct {
	Name       string `json:"name" yaml:"name"`
	DefaultRef string `json:"defaultRef" yaml:"defaultRef"`
	// DisableRestricted applies when a static build is selected and the
	// restricted stage is checked; DisableUnrestricted when it is not.
	DisableRestricted   bool `json:"disableRestricted" yaml:"disableRestricted"`
	DisableUnrestricted bool `json:"disableUnrestricted" yaml:"disableUnrestricted"`
	// Labels is nil when the profile leaves the commit label untouched.
	Labels    *Labels   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Selectors Selectors `json:"selectors" yaml:"selectors"`
	// StageGuard, when set, is the value the stage element must carry before
	// its checked state is trusted.
	StageGuard string `json:"stageGuard,omitempty" yaml:"stageGuard,omitempty"`
}

// ProfilePrelive keeps the commit editable for pre-live webs deploys of a
// static build and locks it for every other static deploy.
var ProfilePrelive = Profile{
	Name:                "prelive",
	DefaultRef:          "origin/master",
	DisableRestricted:   false,
	DisableUnrestricted: true,
	Selectors: Selectors{
		Static: "#static",
		Stage:  "input[name=stages][value=" + RestrictedStageValue + "]",
		Commit: "#commit",
	},
}

// ProfileLocked locks the commit for pre-live webs deploys of a static build,
// leaves it editable otherwise, and rewrites the commit label.
var ProfileLocked = Profile{
	Name:                "locked",
	DefaultRef:          "master",
	DisableRestricted:   true,
	DisableUnrestricted: false,
	Labels: &Labels{
		Restricted:   "Commit (set to static commit)",
		Unrestricted: "LOCKED to static commit for Webs deploy",
		Default:      "Commit",
	},
	Selectors: Selectors{
		Static: "#static",
		Stage:  "#stages-6",
		Commit: "#commit",
		Label:  "label[for=commit]",
	},
	StageGuard: RestrictedStageValue,
}

// DefaultProfile is used when no profile is configured.
var DefaultProfile = ProfileLocked

var profiles = map[string]Profile{
	ProfilePrelive.Name: ProfilePrelive,
	ProfileLocked.Name:  ProfileLocked,
}

// ProfileByName resolves a built-in profile. An empty name yields
// DefaultProfile.
func ProfileByName(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return DefaultProfile, nil
	}
	profile, ok := profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
	}
	return profile, nil
}

// ProfileNames lists the built-in profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdatesLabel reports whether the profile writes the commit label.
func (p Profile) UpdatesLabel() bool {
	return p.Labels != nil
}
