package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/shared"
)

// Rasterizer renders the first page of a PDF to a PNG via pdftocairo.
type Rasterizer struct {
	bin     string
	timeout time.Duration
}

func NewRasterizer(cfg *config.Config) *Rasterizer {
	return &Rasterizer{bin: cfg.PdftocairoBin, timeout: cfg.ConvertTimeout}
}

// FirstPagePNG rasterizes the first page of the PDF at pdfPath and moves the
// result to destPath, returning the image size in bytes.
//
// Each invocation passes its own unique output prefix to the tool, so
// concurrent rasterizations write disjoint paths and cannot pick up each
// other's output.
func (r *Rasterizer) FirstPagePNG(ctx context.Context, pdfPath, destPath string) (int64, error) {
	outBase := filepath.Join(filepath.Dir(destPath), uuid.New().String())

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// -singlefile writes only the first page and adds no page digits.
	cmd := exec.CommandContext(ctx, r.bin, "-png", "-singlefile", pdfPath, outBase)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, fmt.Errorf("%w: rasterizer timed out", shared.ErrConversion)
		}
		return 0, fmt.Errorf("%w: error while converting the file: %v: %s", shared.ErrConversion, err, stderr.String())
	}

	produced := outBase + ".png"
	info, err := os.Stat(produced)
	if err != nil {
		return 0, fmt.Errorf("%w: rasterizer produced no output: %v", shared.ErrConversion, err)
	}

	if err := os.Rename(produced, destPath); err != nil {
		os.Remove(produced)
		return 0, fmt.Errorf("%w: failed to move rasterized page: %v", shared.ErrStorage, err)
	}

	return info.Size(), nil
}
