package template

import (
	"io"
)

// TemplateRenderer executes a named template. *gotemplate.Engine (a
// github.com/goliatone/go-template engine) satisfies it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
