// Package pipeline sequences the upload-and-convert stages for one request:
// validate the staged payload, relocate it into its destination folder, run
// zero or more conversions, and register every produced artifact in the
// catalog. Any stage failure rolls the whole chain back.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/convert"
	"fileconvert-backend/internal/models"
	"fileconvert-backend/internal/shared"
	"fileconvert-backend/internal/storage"
)

// Catalog is the slice of the database client the pipeline owns: pure
// artifact creation, plus row deletion for chain rollback.
type Catalog interface {
	CreateFile(file *models.File) (*models.File, error)
	DeleteFileByFilename(filename string) error
}

// OfficeConverter turns an office document into PDF bytes.
type OfficeConverter interface {
	ToPDF(ctx context.Context, data []byte, mimeType string) ([]byte, error)
}

// Rasterizer renders the first page of a PDF to destPath and reports its size.
type Rasterizer interface {
	FirstPagePNG(ctx context.Context, pdfPath, destPath string) (int64, error)
}

type Pipeline struct {
	serveURL string
	catalog  Catalog
	office   OfficeConverter
	raster   Rasterizer
}

func New(cfg *config.Config, catalog Catalog, office OfficeConverter, raster Rasterizer) *Pipeline {
	return &Pipeline{
		serveURL: strings.TrimRight(cfg.FileServeURL, "/"),
		catalog:  catalog,
		office:   office,
		raster:   raster,
	}
}

// ValidateOffice rejects anything but the three OOXML document types.
func ValidateOffice(sf *storage.StagedFile) error {
	if !convert.IsOfficeMime(sf.MimeType) {
		return fmt.Errorf("%w: invalid file type. Only Word, Excel, and PowerPoint documents are allowed", shared.ErrValidation)
	}
	return nil
}

// ValidatePDF rejects anything but application/pdf.
func ValidatePDF(sf *storage.StagedFile) error {
	if sf.MimeType != "application/pdf" {
		return fmt.Errorf("%w: file must be a pdf file", shared.ErrValidation)
	}
	return nil
}

// ValidateVoice accepts any audio/* payload.
func ValidateVoice(sf *storage.StagedFile) error {
	if !strings.HasPrefix(sf.MimeType, "audio/") {
		return fmt.Errorf("%w: invalid file type. Only audio files are allowed", shared.ErrValidation)
	}
	return nil
}

// ValidateBatch applies one validation to every staged file before any file
// is relocated or converted. The gate is all-or-nothing: the first mismatch
// discards every staged file in the batch.
func ValidateBatch(files []*storage.StagedFile, validate func(*storage.StagedFile) error) error {
	if validate == nil {
		return nil
	}
	for _, sf := range files {
		if err := validate(sf); err != nil {
			storage.Discard(files...)
			return err
		}
	}
	return nil
}

// chain tracks everything one request has materialized so a failure can
// undo all of it. Rows are removed before files so a catalog row never
// outlives its bytes.
type chain struct {
	p     *Pipeline
	paths []string
	rows  []string
}

func (c *chain) trackFile(path string) { c.paths = append(c.paths, path) }
func (c *chain) trackRow(name string)  { c.rows = append(c.rows, name) }

func (c *chain) rollback() {
	for i := len(c.rows) - 1; i >= 0; i-- {
		if err := c.p.catalog.DeleteFileByFilename(c.rows[i]); err != nil {
			log.Printf("rollback: failed to delete catalog row %s: %v", c.rows[i], err)
		}
	}
	for i := len(c.paths) - 1; i >= 0; i-- {
		if err := os.Remove(c.paths[i]); err != nil && !os.IsNotExist(err) {
			log.Printf("rollback: failed to delete %s: %v", c.paths[i], err)
		}
	}
}

func (p *Pipeline) fileData(sf *storage.StagedFile) models.FileData {
	return models.FileData{
		Filename:     sf.Filename,
		OriginalName: sf.OriginalName,
		MimeType:     sf.MimeType,
		Size:         sf.Size,
		Encoding:     sf.Encoding,
		URI:          p.serveURL + "/" + sf.Filename,
	}
}

// register creates the catalog row for a file whose bytes are already on
// disk at sf.Path.
func (p *Pipeline) register(c *chain, sf *storage.StagedFile, project *models.Project) (models.FileData, error) {
	data := p.fileData(sf)

	row := &models.File{
		Filename:  sf.Filename,
		MimeType:  sf.MimeType,
		URI:       data.URI,
		Path:      sf.Path,
		Size:      sf.Size,
		Encoding:  sf.Encoding,
		ProjectID: project.ID,
	}
	if sf.OriginalName != "" {
		row.OriginalName = sql.NullString{String: sf.OriginalName, Valid: true}
	}

	if _, err := p.catalog.CreateFile(row); err != nil {
		return models.FileData{}, fmt.Errorf("%w: failed to create file: %v", shared.ErrPersistence, err)
	}
	c.trackRow(sf.Filename)
	return data, nil
}

// relocate moves the staged file into destDir and puts it under chain
// tracking. The staged copy is discarded if the move fails.
func (p *Pipeline) relocate(c *chain, sf *storage.StagedFile, destDir string) error {
	if err := sf.Relocate(destDir); err != nil {
		storage.Discard(sf)
		return err
	}
	c.trackFile(sf.Path)
	return nil
}

// Store relocates one staged upload and registers it. Used by the plain
// upload endpoints, which derive no artifacts.
func (p *Pipeline) Store(sf *storage.StagedFile, project *models.Project, destDir string) (models.FileData, error) {
	c := &chain{p: p}

	if err := p.relocate(c, sf, destDir); err != nil {
		return models.FileData{}, err
	}

	data, err := p.register(c, sf, project)
	if err != nil {
		c.rollback()
		return models.FileData{}, err
	}

	return data, nil
}

// StoreAll runs Store for each staged file in order. A failure keeps the
// already registered files (their chains completed) but discards the staged
// files that were never reached.
func (p *Pipeline) StoreAll(files []*storage.StagedFile, project *models.Project, destDir string) ([]models.FileData, error) {
	uploaded := make([]models.FileData, 0, len(files))
	for i, sf := range files {
		data, err := p.Store(sf, project, destDir)
		if err != nil {
			storage.Discard(files[i+1:]...)
			return nil, err
		}
		uploaded = append(uploaded, data)
	}
	return uploaded, nil
}

// officeStage converts the relocated office file to PDF, writes the PDF
// beside it under the derived "<name>-pdf" storage name, and returns the
// descriptor for the new artifact.
func (p *Pipeline) officeStage(ctx context.Context, c *chain, sf *storage.StagedFile) (*storage.StagedFile, error) {
	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: file not found or inaccessible: %v", shared.ErrStorage, err)
	}

	pdf, err := p.office.ToPDF(ctx, data, sf.MimeType)
	if err != nil {
		return nil, err
	}

	pdfPath := sf.Path + "-pdf"
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("%w: failed to write converted pdf: %v", shared.ErrStorage, err)
	}
	c.trackFile(pdfPath)

	return &storage.StagedFile{
		FieldName:    sf.FieldName,
		Filename:     sf.Filename + "-pdf",
		OriginalName: sf.OriginalName + ".pdf",
		MimeType:     "application/pdf",
		Size:         int64(len(pdf)),
		Encoding:     "office",
		Path:         pdfPath,
		Destination:  sf.Destination,
	}, nil
}

// rasterStage renders the first page of the PDF described by src to the
// derived "<name>-page1" path and returns the image artifact descriptor.
//
// The artifact is registered as image/jpeg even though the rasterizer emits
// PNG bytes; existing consumers depend on the historical metadata value.
func (p *Pipeline) rasterStage(ctx context.Context, c *chain, src *storage.StagedFile, originalName string) (*storage.StagedFile, error) {
	picPath := src.Path + "-page1"
	size, err := p.raster.FirstPagePNG(ctx, src.Path, picPath)
	if err != nil {
		return nil, err
	}
	c.trackFile(picPath)

	return &storage.StagedFile{
		FieldName:    "files",
		Filename:     src.Filename + "-page1",
		OriginalName: originalName + ".jpeg",
		MimeType:     "image/jpeg",
		Size:         size,
		Encoding:     "pdf",
		Path:         picPath,
		Destination:  src.Destination,
	}, nil
}

// OfficeToPDF runs the office→pdf chain for one validated staged file and
// registers both artifacts.
func (p *Pipeline) OfficeToPDF(ctx context.Context, sf *storage.StagedFile, project *models.Project, destDir string) (models.ConvertPDFResponse, error) {
	var resp models.ConvertPDFResponse
	c := &chain{p: p}

	if err := p.relocate(c, sf, destDir); err != nil {
		return resp, err
	}

	pdfSf, err := p.officeStage(ctx, c, sf)
	if err != nil {
		c.rollback()
		return resp, err
	}

	if resp.File, err = p.register(c, sf, project); err != nil {
		c.rollback()
		return resp, err
	}
	if resp.PDFFile, err = p.register(c, pdfSf, project); err != nil {
		c.rollback()
		return resp, err
	}

	return resp, nil
}

// OfficesToPDF runs the office→pdf chain sequentially for a validated batch.
func (p *Pipeline) OfficesToPDF(ctx context.Context, files []*storage.StagedFile, project *models.Project, destDir string) (models.ConvertPDFsResponse, error) {
	var resp models.ConvertPDFsResponse
	for i, sf := range files {
		one, err := p.OfficeToPDF(ctx, sf, project, destDir)
		if err != nil {
			storage.Discard(files[i+1:]...)
			return models.ConvertPDFsResponse{}, err
		}
		resp.Files = append(resp.Files, one.File)
		resp.PDFFiles = append(resp.PDFFiles, one.PDFFile)
	}
	return resp, nil
}

// PDFToImage runs the pdf→image chain for one validated staged file.
func (p *Pipeline) PDFToImage(ctx context.Context, sf *storage.StagedFile, project *models.Project, destDir string) (models.ConvertImageResponse, error) {
	var resp models.ConvertImageResponse
	c := &chain{p: p}

	if err := p.relocate(c, sf, destDir); err != nil {
		return resp, err
	}

	picSf, err := p.rasterStage(ctx, c, sf, sf.OriginalName)
	if err != nil {
		c.rollback()
		return resp, err
	}

	if resp.File, err = p.register(c, sf, project); err != nil {
		c.rollback()
		return resp, err
	}
	if resp.PicFile, err = p.register(c, picSf, project); err != nil {
		c.rollback()
		return resp, err
	}

	return resp, nil
}

// PDFsToImage runs the pdf→image chain sequentially for a validated batch.
func (p *Pipeline) PDFsToImage(ctx context.Context, files []*storage.StagedFile, project *models.Project, destDir string) (models.ConvertImagesResponse, error) {
	var resp models.ConvertImagesResponse
	for i, sf := range files {
		one, err := p.PDFToImage(ctx, sf, project, destDir)
		if err != nil {
			storage.Discard(files[i+1:]...)
			return models.ConvertImagesResponse{}, err
		}
		resp.Files = append(resp.Files, one.File)
		resp.PicFiles = append(resp.PicFiles, one.PicFile)
	}
	return resp, nil
}

// OfficeToPDFImage runs the full office→pdf→image chain and registers all
// three artifacts.
func (p *Pipeline) OfficeToPDFImage(ctx context.Context, sf *storage.StagedFile, project *models.Project, destDir string) (models.ConvertChainResponse, error) {
	var resp models.ConvertChainResponse
	c := &chain{p: p}

	if err := p.relocate(c, sf, destDir); err != nil {
		return resp, err
	}

	pdfSf, err := p.officeStage(ctx, c, sf)
	if err != nil {
		c.rollback()
		return resp, err
	}

	picSf, err := p.rasterStage(ctx, c, pdfSf, sf.OriginalName)
	if err != nil {
		c.rollback()
		return resp, err
	}

	if resp.File, err = p.register(c, sf, project); err != nil {
		c.rollback()
		return resp, err
	}
	if resp.PDFFile, err = p.register(c, pdfSf, project); err != nil {
		c.rollback()
		return resp, err
	}
	if resp.PicFile, err = p.register(c, picSf, project); err != nil {
		c.rollback()
		return resp, err
	}

	return resp, nil
}
