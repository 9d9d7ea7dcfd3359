package handlers

import (
	"github.com/gin-gonic/gin"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/pipeline"
	"fileconvert-backend/internal/storage"
)

type ConvertHandler struct {
	cfg      *config.Config
	stager   *storage.Stager
	resolver *storage.Resolver
	pipeline *pipeline.Pipeline
}

func NewConvertHandler(cfg *config.Config, stager *storage.Stager, resolver *storage.Resolver, pl *pipeline.Pipeline) *ConvertHandler {
	return &ConvertHandler{
		cfg:      cfg,
		stager:   stager,
		resolver: resolver,
		pipeline: pl,
	}
}

// OfficeToPDF godoc
// @Summary     Convert one office document to PDF
// @Description Stores the upload, converts it to PDF and registers both artifacts.
// @Tags        convert
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       file formData file true "Word, Excel or PowerPoint document"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/office-to-pdf [post]
func (h *ConvertHandler) OfficeToPDF(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "file", 1)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidateOffice); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.pipeline.OfficeToPDF(c.Request.Context(), staged[0], project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, resp, "File has been converted successfully!")
}

// OfficesToPDF godoc
// @Summary     Convert multiple office documents to PDF
// @Description Validates the whole batch first; one bad MIME type rejects every file.
// @Tags        convert
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       files formData file true "Office documents (max 5)"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/offices-to-pdf [post]
func (h *ConvertHandler) OfficesToPDF(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "files", 5)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidateOffice); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.pipeline.OfficesToPDF(c.Request.Context(), staged, project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, resp, "Files have been converted successfully!")
}

// PDFToImage godoc
// @Summary     Convert one PDF to a first-page image
// @Description Stores the upload, rasterizes the first page and registers both artifacts.
// @Tags        convert
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       file formData file true "PDF document"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/pdf-to-image [post]
func (h *ConvertHandler) PDFToImage(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "file", 1)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidatePDF); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.pipeline.PDFToImage(c.Request.Context(), staged[0], project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, resp, "File has been converted successfully!")
}

// PDFsToImage godoc
// @Summary     Convert multiple PDFs to first-page images
// @Description Validates the whole batch first; one bad MIME type rejects every file.
// @Tags        convert
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       files formData file true "PDF documents (max 5)"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/pdfs-to-image [post]
func (h *ConvertHandler) PDFsToImage(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "files", 5)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidatePDF); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.pipeline.PDFsToImage(c.Request.Context(), staged, project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, resp, "Files have been converted successfully!")
}

// OfficeToPDFImage godoc
// @Summary     Convert one office document to PDF and a first-page image
// @Description Runs the full office→pdf→image chain and registers all three artifacts.
// @Tags        convert
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       file formData file true "Word, Excel or PowerPoint document"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/office-to-pdf-image [post]
func (h *ConvertHandler) OfficeToPDFImage(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "file", 1)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidateOffice); err != nil {
		fail(c, err)
		return
	}

	resp, err := h.pipeline.OfficeToPDFImage(c.Request.Context(), staged[0], project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, resp, "File has been converted successfully.")
}
