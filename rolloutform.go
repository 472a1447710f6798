// Package rolloutform renders rollout request forms whose commit field stays
// synchronized with the selected static build and the pre-live webs stage.
package rolloutform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-rolloutform/pkg/orchestrator"
	"github.com/goliatone/go-rolloutform/pkg/render"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla"
	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// Definition aliases rollout.Definition.
type Definition = rollout.Definition

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders def with the named renderer ("vanilla" when empty).
func GenerateHTML(ctx context.Context, def Definition, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Definition:    &def,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// RuntimeAssetsFS exposes the browser runtime (commitsync.js) and default
// stylesheet.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(rolloutform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
