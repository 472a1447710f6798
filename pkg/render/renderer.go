package render

import (
	"context"

	"github.com/goliatone/go-rolloutform/pkg/model"
)

// Renderer converts a FormModel into a byte representation (HTML, JSON
// collected from a terminal session, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
