package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/shared"
)

// MaxFileSize is the per-file upload limit (200 MB).
const MaxFileSize = 200 * 1024 * 1024

// StagedFile describes one uploaded payload sitting in the staging
// directory. The pipeline mutates Path and Destination as it relocates the
// bytes; a StagedFile is never persisted.
type StagedFile struct {
	FieldName    string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Encoding     string
	Path         string
	Destination  string
}

// Stager writes multipart payloads into the shared staging directory under
// fresh uuid names.
type Stager struct {
	dir string
}

func NewStager(cfg *config.Config) *Stager {
	return &Stager{dir: cfg.StagingDir}
}

// Stage saves every file under the given form field into the staging
// directory. Count and size limits are enforced before any conversion work
// begins; on any violation files already staged by this call are removed.
func (s *Stager) Stage(c *gin.Context, field string, maxFiles int) ([]*StagedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request: %v", shared.ErrValidation, err)
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded! Field %s is required", shared.ErrValidation, field)
	}
	if len(headers) > maxFiles {
		if maxFiles == 1 {
			return nil, fmt.Errorf("%w: only one file allowed", shared.ErrValidation)
		}
		return nil, fmt.Errorf("%w: only %d files allowed! Please select less than or equal to %d files", shared.ErrValidation, maxFiles, maxFiles)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create staging directory: %v", shared.ErrStorage, err)
	}

	staged := make([]*StagedFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > MaxFileSize {
			Discard(staged...)
			return nil, fmt.Errorf("%w: file size limit exceeded", shared.ErrValidation)
		}

		name := uuid.New().String()
		path := filepath.Join(s.dir, name)
		if err := c.SaveUploadedFile(fh, path); err != nil {
			Discard(staged...)
			return nil, fmt.Errorf("%w: failed to save uploaded file: %v", shared.ErrStorage, err)
		}

		encoding := fh.Header.Get("Content-Transfer-Encoding")
		if encoding == "" {
			encoding = "7bit"
		}

		staged = append(staged, &StagedFile{
			FieldName:    field,
			Filename:     name,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Encoding:     encoding,
			Path:         path,
		})
	}

	return staged, nil
}

// Discard removes staged files from disk. Missing files are ignored; the
// staging area is scratch space and a double delete is not an error.
func Discard(files ...*StagedFile) {
	for _, f := range files {
		if f != nil && f.Path != "" {
			os.Remove(f.Path)
		}
	}
}

// Relocate moves the staged bytes into destDir, keeping the generated
// storage name, and updates Path and Destination in place. A cross-device
// rename falls back to copy-then-remove.
func (sf *StagedFile) Relocate(destDir string) error {
	target := filepath.Join(destDir, sf.Filename)
	if err := os.Rename(sf.Path, target); err != nil {
		if err := copyFile(sf.Path, target); err != nil {
			return fmt.Errorf("%w: failed to move staged file: %v", shared.ErrStorage, err)
		}
		os.Remove(sf.Path)
	}

	sf.Path = target
	sf.Destination = destDir
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}

	return out.Close()
}
