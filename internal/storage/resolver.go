package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/shared"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Sanitize strips every character outside [A-Za-z0-9_] and lower-cases the
// result. Caller-supplied key/folder tokens never reach the filesystem in
// any other form.
func Sanitize(token string) string {
	return strings.ToLower(nonWord.ReplaceAllString(token, ""))
}

// Resolver computes the destination folder for uploaded artifacts:
// baseDir/key/folder/yyyy-mm-dd/.
type Resolver struct {
	baseDir string
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{baseDir: cfg.FileDir}
}

// Resolve sanitizes key and folder, builds the date-scoped destination path
// and creates it if absent. The create is idempotent; resolving the same
// pair twice never errors on the second call.
func (r *Resolver) Resolve(key, folder string, now time.Time) (string, error) {
	mainFolder := Sanitize(key)
	subFolder := Sanitize(folder)
	if mainFolder == "" || subFolder == "" {
		return "", fmt.Errorf("%w: fields key and folder are required", shared.ErrValidation)
	}

	dest := filepath.Join(r.baseDir, mainFolder, subFolder, now.Format("2006-01-02"))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create destination folder: %v", shared.ErrStorage, err)
	}

	return dest, nil
}
