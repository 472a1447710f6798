// Package template defines the seam the HTML renderer executes templates
// through. The gotemplate subpackage builds the go-template engine used by
// default.
package template
