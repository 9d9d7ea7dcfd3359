package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/handlers"
	"fileconvert-backend/internal/middleware"
	"fileconvert-backend/internal/models"
	"fileconvert-backend/internal/pipeline"
	"fileconvert-backend/internal/storage"
)

const (
	testKey    = "myapp"
	testSecret = "test-secret"
	docxMime   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type fakeCatalog struct {
	mu        sync.Mutex
	rows      map[string]*models.File
	created   int
	failAfter int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{rows: map[string]*models.File{}, failAfter: -1}
}

func (f *fakeCatalog) CreateFile(file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && f.created >= f.failAfter {
		return nil, fmt.Errorf("insert failed")
	}
	f.created++
	f.rows[file.Filename] = file
	return file, nil
}

func (f *fakeCatalog) DeleteFileByFilename(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, filename)
	return nil
}

func (f *fakeCatalog) GetFileByFilename(filename string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[filename], nil
}

func (f *fakeCatalog) GetProjectBySecret(secret string) (*models.Project, error) {
	if secret == testSecret {
		return &models.Project{ID: 1, Key: testKey, Secret: testSecret}, nil
	}
	return nil, nil
}

type fakeOffice struct {
	out []byte
	err error
}

func (f *fakeOffice) ToPDF(_ context.Context, _ []byte, _ string) ([]byte, error) {
	return f.out, f.err
}

type fakeRaster struct {
	out []byte
	err error
}

func (f *fakeRaster) FirstPagePNG(_ context.Context, _, destPath string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if err := os.WriteFile(destPath, f.out, 0o644); err != nil {
		return 0, err
	}
	return int64(len(f.out)), nil
}

type testEnv struct {
	router  *gin.Engine
	cfg     *config.Config
	catalog *fakeCatalog
}

// newTestEnv wires the full router against fakes, mirroring cmd/server.
func newTestEnv(t *testing.T, catalog *fakeCatalog, office pipeline.OfficeConverter, raster pipeline.Rasterizer) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	cfg := &config.Config{
		FileDir:        filepath.Join(base, "public"),
		StagingDir:     filepath.Join(base, "staging"),
		FileServeURL:   "/file/serve",
		ConvertTimeout: time.Second,
	}

	stager := storage.NewStager(cfg)
	resolver := storage.NewResolver(cfg)
	pl := pipeline.New(cfg, catalog, office, raster)

	serveHandler := handlers.NewServeHandler(catalog)
	uploadHandler := handlers.NewUploadHandler(cfg, stager, resolver, pl)
	convertHandler := handlers.NewConvertHandler(cfg, stager, resolver, pl)

	router := gin.New()
	router.GET("/file/serve/:filename", serveHandler.Serve)

	authorized := router.Group("/file")
	authorized.Use(middleware.ProjectAuth(catalog))
	authorized.POST("/upload-single", uploadHandler.UploadSingle)
	authorized.POST("/upload-mutiple", uploadHandler.UploadMultiple)
	authorized.POST("/upload-voice", uploadHandler.UploadVoice)
	authorized.POST("/office-to-pdf", convertHandler.OfficeToPDF)
	authorized.POST("/offices-to-pdf", convertHandler.OfficesToPDF)
	authorized.POST("/pdf-to-image", convertHandler.PDFToImage)
	authorized.POST("/pdfs-to-image", convertHandler.PDFsToImage)
	authorized.POST("/office-to-pdf-image", convertHandler.OfficeToPDFImage)

	return &testEnv{router: router, cfg: cfg, catalog: catalog}
}

type filePart struct {
	name string
	mime string
	data []byte
}

// uploadRequest builds an authenticated multipart POST with the standard
// key/folder fields plus the given file parts.
func uploadRequest(t *testing.T, url, field string, parts []filePart) *http.Request {
	return uploadRequestKeyed(t, url, field, testKey, parts)
}

func uploadRequestKeyed(t *testing.T, url, field, key string, parts []filePart) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("key", key))
	require.NoError(t, writer.WriteField("folder", "docs"))

	for _, fp := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, fp.name))
		h.Set("Content-Type", fp.mime)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fp.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testSecret)
	return req
}

// stagingEmpty reports whether the staging directory holds no leftovers.
func (e *testEnv) stagingEmpty(t *testing.T) bool {
	t.Helper()
	entries, err := os.ReadDir(e.cfg.StagingDir)
	if os.IsNotExist(err) {
		return true
	}
	require.NoError(t, err)
	return len(entries) == 0
}
