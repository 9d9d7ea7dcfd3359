package storage_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/shared"
	"fileconvert-backend/internal/storage"
)

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, name))
		h.Set("Content-Type", "application/octet-stream")
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func stageThrough(t *testing.T, stager *storage.Stager, field string, maxFiles int, body *bytes.Buffer, contentType string) ([]*storage.StagedFile, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var staged []*storage.StagedFile
	var stageErr error

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		staged, stageErr = stager.Stage(c, field, maxFiles)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return staged, stageErr
}

func TestStage_SavesUnderGeneratedName(t *testing.T) {
	dir := t.TempDir()
	stager := storage.NewStager(&config.Config{StagingDir: dir})

	body, contentType := multipartBody(t, "file", map[string][]byte{"report.docx": []byte("payload")})
	staged, err := stageThrough(t, stager, "file", 1, body, contentType)
	require.NoError(t, err)
	require.Len(t, staged, 1)

	sf := staged[0]
	assert.Equal(t, "report.docx", sf.OriginalName)
	assert.NotEqual(t, sf.OriginalName, sf.Filename)
	assert.Equal(t, int64(len("payload")), sf.Size)
	assert.Equal(t, "7bit", sf.Encoding)
	assert.Equal(t, filepath.Join(dir, sf.Filename), sf.Path)

	data, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestStage_MissingField(t *testing.T) {
	stager := storage.NewStager(&config.Config{StagingDir: t.TempDir()})

	body, contentType := multipartBody(t, "other", map[string][]byte{"a": []byte("x")})
	_, err := stageThrough(t, stager, "file", 1, body, contentType)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestStage_TooManyFiles(t *testing.T) {
	dir := t.TempDir()
	stager := storage.NewStager(&config.Config{StagingDir: dir})

	body, contentType := multipartBody(t, "files", map[string][]byte{
		"a": []byte("1"), "b": []byte("2"), "c": []byte("3"),
	})
	_, err := stageThrough(t, stager, "files", 2, body, contentType)
	assert.ErrorIs(t, err, shared.ErrValidation)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "limit violations must leave nothing staged")
}

func TestRelocate_MovesAndUpdatesDescriptor(t *testing.T) {
	staging := t.TempDir()
	dest := t.TempDir()

	path := filepath.Join(staging, "abc123")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	sf := &storage.StagedFile{Filename: "abc123", Path: path}
	require.NoError(t, sf.Relocate(dest))

	assert.Equal(t, filepath.Join(dest, "abc123"), sf.Path)
	assert.Equal(t, dest, sf.Destination)
	assert.NoFileExists(t, path)
	assert.FileExists(t, sf.Path)
}

func TestDiscard_RemovesStagedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stale")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	storage.Discard(&storage.StagedFile{Path: path}, nil)
	assert.NoFileExists(t, path)
}
