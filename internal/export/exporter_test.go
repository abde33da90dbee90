package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"resumeforge/internal/database"
	"resumeforge/internal/render"
)

type fakeConverter struct {
	output   []byte
	err      error
	lastHTML string
}

func (f *fakeConverter) Convert(_ context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

type fakeArchive struct {
	objectName  string
	contentType string
	size        int64
	err         error
}

func (f *fakeArchive) UploadFile(_ context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	f.objectName = objectName
	f.contentType = contentType
	f.size = size
	_, _ = io.Copy(io.Discard, reader)
	return f.err
}

func testResume(id uint) *database.Resume {
	return &database.Resume{
		Model:    gorm.Model{ID: id},
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Template: "modern",
	}
}

func newTestExporter(t *testing.T, converter *fakeConverter, archive Archive) *Exporter {
	t.Helper()
	renderer, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return NewExporter(renderer, converter, t.TempDir(), time.Second, archive, nil)
}

func TestExportWritesDeterministicPath(t *testing.T) {
	converter := &fakeConverter{output: []byte("%PDF-1.4 fake")}
	exporter := newTestExporter(t, converter, nil)

	path, err := exporter.Export(context.Background(), testResume(7))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if path != exporter.PathFor(7) {
		t.Fatalf("expected path %q, got %q", exporter.PathFor(7), path)
	}
	if filepath.Base(path) != "resume_7.pdf" {
		t.Fatalf("expected file name resume_7.pdf, got %q", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported pdf: %v", err)
	}
	if string(content) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected pdf content %q", content)
	}

	if !strings.Contains(converter.lastHTML, "Alice Smith") {
		t.Fatal("converter input must be the rendered resume")
	}
}

func TestExportOverwritesPreviousFile(t *testing.T) {
	converter := &fakeConverter{output: []byte("first")}
	exporter := newTestExporter(t, converter, nil)

	if _, err := exporter.Export(context.Background(), testResume(3)); err != nil {
		t.Fatalf("first export: %v", err)
	}

	converter.output = []byte("second")
	path, err := exporter.Export(context.Background(), testResume(3))
	if err != nil {
		t.Fatalf("second export: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported pdf: %v", err)
	}
	if string(content) != "second" {
		t.Fatalf("expected overwritten content, got %q", content)
	}

	// Only the final file remains; the temp file is gone.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read pdf dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in pdf dir, found %d", len(entries))
	}
}

func TestExportConverterFailureLeavesNoFile(t *testing.T) {
	converter := &fakeConverter{err: errors.New("boom")}
	exporter := newTestExporter(t, converter, nil)

	if _, err := exporter.Export(context.Background(), testResume(5)); err == nil {
		t.Fatal("expected converter failure to surface")
	}
	if _, err := os.Stat(exporter.PathFor(5)); !os.IsNotExist(err) {
		t.Fatalf("no file must exist at the served path, stat err: %v", err)
	}
}

func TestExportMirrorsToArchive(t *testing.T) {
	converter := &fakeConverter{output: []byte("pdf-bytes")}
	archive := &fakeArchive{}
	exporter := newTestExporter(t, converter, archive)

	if _, err := exporter.Export(context.Background(), testResume(9)); err != nil {
		t.Fatalf("export: %v", err)
	}
	if archive.objectName != "resumes/9/resume_9.pdf" {
		t.Fatalf("unexpected object name %q", archive.objectName)
	}
	if archive.contentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", archive.contentType)
	}
	if archive.size != int64(len("pdf-bytes")) {
		t.Fatalf("unexpected size %d", archive.size)
	}
}

func TestExportArchiveFailureDoesNotFailExport(t *testing.T) {
	converter := &fakeConverter{output: []byte("pdf-bytes")}
	archive := &fakeArchive{err: errors.New("bucket unreachable")}
	exporter := newTestExporter(t, converter, archive)

	path, err := exporter.Export(context.Background(), testResume(11))
	if err != nil {
		t.Fatalf("archive failure must not fail export: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("local pdf must exist: %v", err)
	}
}
