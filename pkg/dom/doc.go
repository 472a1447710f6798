// Package dom provides a small in-memory document object model backed by
// golang.org/x/net/html. It supplies the controls the commit synchronizer
// reads and writes (selects, checkboxes, text inputs, labels) and a change
// event surface with listener removal.
//
// User actions (Select, SetChecked) dispatch change events; programmatic
// writes (SetValue, SetDisabled, SetText) never do. Events are dispatched
// one at a time: an action triggered while a handler runs is queued and
// delivered after the current handler set returns, the way a browser event
// loop serializes dispatch. A listener that panics is recovered and reported
// to the action's caller; it does not stop later dispatch.
//
// Lookups take CSS selectors compiled with github.com/andybalholm/cascadia.
package dom
