// Package commitsync keeps a rollout form's commit field in step with the
// static build dropdown and the pre-live webs stage indicator.
//
// Derive is the pure computation: given the selected option text and whether
// the restricted stage is checked, it returns the commit value, disabled flag
// and label a Profile prescribes. A Synchronizer binds Derive to live
// controls: Mount registers change listeners, every change recomputes the
// state from scratch and applies it, and Unmount removes the listeners.
//
// Two profiles reproduce the two historical behaviours of the form.
// ProfilePrelive leaves the commit editable for pre-live webs deploys and
// locks it otherwise; ProfileLocked inverts that mapping, defaults to
// "master" and rewrites the commit label.
package commitsync
