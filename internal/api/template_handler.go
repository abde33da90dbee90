package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/render"
)

// TemplateHandler serves the template preview gallery.
type TemplateHandler struct {
	renderer *render.Renderer
}

// NewTemplateHandler constructs the template handler.
func NewTemplateHandler(renderer *render.Renderer) *TemplateHandler {
	return &TemplateHandler{renderer: renderer}
}

// Preview renders an allow-listed template with placeholder data. Names
// outside the allow-list get a plain 404; no file content is disclosed.
func (h *TemplateHandler) Preview(c *gin.Context) {
	name := c.Param("template_name")

	html, err := h.renderer.RenderPreview(name)
	if err != nil {
		if errors.Is(err, render.ErrUnknownTemplate) {
			c.String(http.StatusNotFound, "Template not found")
			return
		}
		c.String(http.StatusInternalServerError, "Failed to render template")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
