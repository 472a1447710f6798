// Package testsupport holds fixtures shared by package tests: a stock rollout
// definition, form and document helpers, and a logger that records output.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-rolloutform/pkg/dom"
	"github.com/goliatone/go-rolloutform/pkg/model"
	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

const (
	// StaticBuildLabel carries the short ref "abcd123".
	StaticBuildLabel = "Static 42 (webs-static-42-20240109-abcd123)"
	StaticBuildRef   = "abcd123"
	// PendingBuildLabel has no short ref.
	PendingBuildLabel = "Static 43 (pending)"
)

// Definition returns the stock seven-stage definition with two builds, one
// well-formed and one without a short ref.
func Definition(profile string) rollout.Definition {
	def := rollout.DefaultDefinition()
	def.Profile = profile
	def.Builds = []rollout.Build{
		{Value: "42", Label: StaticBuildLabel},
		{Value: "43", Label: PendingBuildLabel},
	}
	return def
}

// MustForm builds def into a form model.
func MustForm(t *testing.T, def rollout.Definition) model.FormModel {
	t.Helper()

	form, err := def.Form()
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// MustLoadDefinition reads a definition fixture from disk.
func MustLoadDefinition(t *testing.T, path string) rollout.Definition {
	t.Helper()

	def, err := rollout.LoadFile(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// MustParseDocument parses rendered markup into a document.
func MustParseDocument(t *testing.T, markup []byte) *dom.Document {
	t.Helper()

	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustQuery resolves selector in doc.
func MustQuery(t *testing.T, doc *dom.Document, selector string) *dom.Element {
	t.Helper()

	el, err := doc.Query(selector)
	if err != nil {
		t.Fatalf("query %q: %v", selector, err)
	}
	return el
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// LogContext returns a context carrying a debug-level zerolog logger that
// writes JSON lines into the returned buffer.
func LogContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background()), &buf
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
