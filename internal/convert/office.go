// Package convert wraps the two external converter binaries the service
// depends on: LibreOffice for office-to-pdf and poppler's pdftocairo for
// pdf-to-image. Both run out of process under a bounded timeout.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/shared"
)

// MIME types accepted by the office conversion endpoints, mapped to the
// extension LibreOffice needs to pick the right import filter.
var officeExtensions = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// IsOfficeMime reports whether the office converter accepts the MIME type.
func IsOfficeMime(mimeType string) bool {
	_, ok := officeExtensions[mimeType]
	return ok
}

// Office converts OOXML documents to PDF by shelling out to soffice.
type Office struct {
	bin     string
	timeout time.Duration
}

func NewOffice(cfg *config.Config) *Office {
	return &Office{bin: cfg.SofficeBin, timeout: cfg.ConvertTimeout}
}

// ToPDF converts one office document to PDF bytes. The converter runs in a
// private temp directory so concurrent conversions never collide.
func (o *Office) ToPDF(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	ext, ok := officeExtensions[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported office type %s", shared.ErrConversion, mimeType)
	}

	workDir, err := os.MkdirTemp("", "office-to-pdf-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create work directory: %v", shared.ErrStorage, err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input"+ext)
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: failed to write converter input: %v", shared.ErrStorage, err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, o.bin,
		"--headless", "--norestore",
		"--convert-to", "pdf",
		"--outdir", workDir,
		inputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: office converter timed out", shared.ErrConversion)
		}
		return nil, fmt.Errorf("%w: office converter failed: %v: %s", shared.ErrConversion, err, stderr.String())
	}

	pdf, err := os.ReadFile(filepath.Join(workDir, "input.pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: office converter produced no output: %v", shared.ErrConversion, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: office converter produced empty output", shared.ErrConversion)
	}

	return pdf, nil
}
