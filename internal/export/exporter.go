// Package export turns a stored resume into a PDF file on disk.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"resumeforge/internal/database"
	"resumeforge/internal/pdf"
	"resumeforge/internal/render"
)

// Archive mirrors exported PDFs into object storage. Optional; a nil
// archive means local disk only.
type Archive interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
}

// Exporter renders a resume, converts it, and writes the PDF to a
// deterministic per-resume path.
type Exporter struct {
	renderer  *render.Renderer
	converter pdf.Converter
	pdfDir    string
	timeout   time.Duration
	archive   Archive
	logger    *slog.Logger
}

// NewExporter wires the export pipeline. archive may be nil.
func NewExporter(renderer *render.Renderer, converter pdf.Converter, pdfDir string, timeout time.Duration, archive Archive, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		renderer:  renderer,
		converter: converter,
		pdfDir:    pdfDir,
		timeout:   timeout,
		archive:   archive,
		logger:    logger,
	}
}

// PathFor returns the deterministic output path for a resume id. Repeated
// exports overwrite the same file.
func (e *Exporter) PathFor(resumeID uint) string {
	return filepath.Join(e.pdfDir, fmt.Sprintf("resume_%d.pdf", resumeID))
}

// Export renders the resume with its own recorded template (the renderer
// falls back to the default for unknown names), converts it, and writes the
// PDF. The write goes through a temp file and rename, so a converter or
// write failure never leaves a partial file at the served path.
func (e *Exporter) Export(ctx context.Context, resume *database.Resume) (string, error) {
	html, err := e.renderer.Render(resume.Template, render.Data{
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
		return "", err
	}

	convertCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	pdfBytes, err := e.converter.Convert(convertCtx, string(html))
	if err != nil {
		return "", fmt.Errorf("convert resume %d: %w", resume.ID, err)
	}

	finalPath := e.PathFor(resume.ID)
	tmp, err := os.CreateTemp(e.pdfDir, fmt.Sprintf("resume_%d_*.pdf.tmp", resume.ID))
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(pdfBytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close pdf: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publish pdf: %w", err)
	}

	if e.archive != nil {
		objectName := fmt.Sprintf("resumes/%d/resume_%d.pdf", resume.ID, resume.ID)
		reader := bytes.NewReader(pdfBytes)
		if err := e.archive.UploadFile(ctx, objectName, reader, int64(len(pdfBytes)), "application/pdf"); err != nil {
			// The archive is a mirror; the local file is the artifact of
			// record, so archive failures do not fail the export.
			e.logger.Warn("archive pdf upload failed",
				slog.Uint64("resume_id", uint64(resume.ID)),
				slog.Any("error", err),
			)
		}
	}

	return finalPath, nil
}
