package components

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput   = "input"
	NameSelect  = "select"
	NameChoices = "choices"
	NameCommit  = "commit"
)

// DefaultRuntimeScript is where the commit runtime is expected to be served
// from when callers do not configure another path.
const DefaultRuntimeScript = "/runtime/commitsync.js"
