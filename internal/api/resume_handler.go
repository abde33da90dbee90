package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/export"
	"resumeforge/internal/render"
	"resumeforge/internal/resumes"
)

var errInvalidResumeID = errors.New("invalid resume id")

// ResumeHandler serves the resume CRUD, view and export flows.
type ResumeHandler struct {
	resumes  *resumes.Service
	renderer *render.Renderer
	exporter *export.Exporter
}

// NewResumeHandler constructs the resume handler.
func NewResumeHandler(service *resumes.Service, renderer *render.Renderer, exporter *export.Exporter) *ResumeHandler {
	return &ResumeHandler{
		resumes:  service,
		renderer: renderer,
		exporter: exporter,
	}
}

// Index renders the landing page for a logged-in user.
func (h *ResumeHandler) Index(c *gin.Context) {
	username, _ := middleware.UsernameFromContext(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flash":    takeFlash(c),
		"Username": username,
	})
}

// CreatePage renders the resume creation form.
func (h *ResumeHandler) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "create_resume.html", gin.H{
		"Flash":     takeFlash(c),
		"Templates": render.AllowedTemplates(),
	})
}

// Create inserts a resume for the session owner from the submitted form.
func (h *ResumeHandler) Create(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	fields := resumes.Fields{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		Address:    c.PostForm("address"),
		Education:  c.PostForm("education"),
		Experience: c.PostForm("experience"),
		Skills:     c.PostForm("skills"),
		Template:   c.PostForm("template"),
		About:      c.PostForm("about"),
	}

	logger := middleware.LoggerFromContext(c).With(slog.String("username", username))

	id, err := h.resumes.Create(c.Request.Context(), username, fields)
	switch {
	case errors.Is(err, resumes.ErrUnknownAccount):
		// The session guard makes this unreachable short of a deleted
		// account; send them back through login.
		logger.Warn("create resume: session user has no account")
		setFlash(c, "User not found.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	case err != nil:
		logger.Error("create resume failed", slog.Any("error", err))
		setFlash(c, "Failed to create resume. Please try again.")
		c.Redirect(http.StatusSeeOther, "/create_resume")
		return
	}

	logger.Info("resume created", slog.Uint64("resume_id", uint64(id)))
	setFlash(c, "Resume created successfully!")
	c.Redirect(http.StatusSeeOther, "/view_resumes")
}

// List renders the session owner's resumes.
func (h *ResumeHandler) List(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	items, err := h.resumes.ListByOwner(c.Request.Context(), username)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list resumes failed", slog.Any("error", err))
		setFlash(c, "Failed to load resumes.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.HTML(http.StatusOK, "view_resumes.html", gin.H{
		"Flash":   takeFlash(c),
		"Resumes": items,
	})
}

// View renders a single resume through its recorded template. The route is
// open: anyone with the numeric id can view (documented authorization gap).
func (h *ResumeHandler) View(c *gin.Context) {
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		setFlash(c, "Resume not found!")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	resume, err := h.resumes.FetchByID(c.Request.Context(), id)
	if err != nil {
		setFlash(c, "Resume not found!")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	html, err := h.renderer.Render(resume.Template, render.Data{
		Name:       resume.Name,
		Email:      resume.Email,
		Phone:      resume.Phone,
		Address:    resume.Address,
		Education:  resume.Education,
		Experience: resume.Experience,
		Skills:     resume.Skills,
		About:      resume.About,
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("render resume failed", slog.Any("error", err))
		setFlash(c, "Failed to render resume.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// Download exports a resume as PDF and streams it as an attachment. Export
// is synchronous; the converter runs on the request path under a timeout.
func (h *ResumeHandler) Download(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		setFlash(c, "Resume not found!")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	resume, err := h.resumes.FetchByID(c.Request.Context(), id)
	if err != nil {
		setFlash(c, "Resume not found!")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	path, err := h.exporter.Export(c.Request.Context(), resume)
	if err != nil {
		logger.Error("export resume failed",
			slog.Uint64("resume_id", uint64(id)),
			slog.Any("error", err),
		)
		setFlash(c, "Error generating PDF. Please try again.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	logger.Info("resume exported", slog.Uint64("resume_id", uint64(id)))
	c.FileAttachment(path, fmt.Sprintf("resume_%d.pdf", id))
}

// Delete removes a resume after the ownership check.
func (h *ResumeHandler) Delete(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	logger := middleware.LoggerFromContext(c).With(slog.String("username", username))

	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		setFlash(c, "Resume not found or you do not have permission to delete it.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	err = h.resumes.Delete(c.Request.Context(), username, id)
	switch {
	case errors.Is(err, resumes.ErrUnknownAccount):
		logger.Warn("delete resume: session user has no account")
		setFlash(c, "User not found.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	case errors.Is(err, resumes.ErrNotFoundOrForbidden):
		setFlash(c, "Resume not found or you do not have permission to delete it.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	case err != nil:
		logger.Error("delete resume failed", slog.Any("error", err))
		setFlash(c, "Failed to delete resume.")
		c.Redirect(http.StatusSeeOther, "/view_resumes")
		return
	}

	logger.Info("resume deleted", slog.Uint64("resume_id", uint64(id)))
	setFlash(c, "Resume deleted successfully!")
	c.Redirect(http.StatusSeeOther, "/view_resumes")
}

func parseResumeID(param string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(param), 10, 64)
	if err != nil {
		return 0, errInvalidResumeID
	}
	return uint(id), nil
}
