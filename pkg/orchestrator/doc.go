// Package orchestrator wires the definition → form model → transformer →
// renderer pipeline behind a single entry point.
package orchestrator
