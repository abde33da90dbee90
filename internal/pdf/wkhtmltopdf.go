package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// WkhtmltopdfConverter shells out to the wkhtmltopdf binary, streaming HTML
// on stdin and reading the PDF from stdout.
type WkhtmltopdfConverter struct {
	binaryPath string
}

// NewWkhtmltopdfConverter builds a converter around the given binary path.
func NewWkhtmltopdfConverter(binaryPath string) *WkhtmltopdfConverter {
	return &WkhtmltopdfConverter{binaryPath: binaryPath}
}

// Args returns the fixed argument list: A4, 0.75in margins on all sides,
// quiet, reading from stdin and writing to stdout.
func (c *WkhtmltopdfConverter) Args() []string {
	margin := fmt.Sprintf("%.2fin", marginInches)
	return []string{
		"--page-size", "A4",
		"--margin-top", margin,
		"--margin-right", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--quiet",
		"-", "-",
	}
}

// Convert runs the binary under ctx, so a configured timeout kills a hung
// converter instead of blocking the request indefinitely.
func (c *WkhtmltopdfConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.binaryPath, c.Args()...)
	cmd.Stdin = strings.NewReader(html)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("wkhtmltopdf: %w", ctxErr)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("wkhtmltopdf: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("wkhtmltopdf produced no output")
	}

	return stdout.Bytes(), nil
}
