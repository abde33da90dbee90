package api

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/metrics"
)

//go:embed templates/*.html
var pageFS embed.FS

// NewRouter builds the Gin engine with the shared middleware chain, the
// embedded page templates, and the health and metrics endpoints.
func NewRouter(logger *slog.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
	)

	pages, err := template.ParseFS(pageFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	router.SetHTMLTemplate(pages)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}
