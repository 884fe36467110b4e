package handler

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer renders pages with html/template for echo.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer wraps parsed templates.
func NewTemplateRenderer(t *template.Template) *TemplateRenderer {
	return &TemplateRenderer{templates: t}
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
