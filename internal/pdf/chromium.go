package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ChromiumConverter renders HTML in a headless browser and prints it to PDF.
type ChromiumConverter struct{}

// NewChromiumConverter builds the go-rod backed converter.
func NewChromiumConverter() *ChromiumConverter {
	return &ChromiumConverter{}
}

// Convert launches a browser per call; the process is short-lived and the
// export path is infrequent enough that pooling is not worth the state.
func (c *ChromiumConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      float64Ptr(pageWidthInches),
		PaperHeight:     float64Ptr(pageHeightInches),
		MarginTop:       float64Ptr(marginInches),
		MarginBottom:    float64Ptr(marginInches),
		MarginLeft:      float64Ptr(marginInches),
		MarginRight:     float64Ptr(marginInches),
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	return data, nil
}

func float64Ptr(value float64) *float64 {
	return &value
}
