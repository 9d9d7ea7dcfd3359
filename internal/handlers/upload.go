package handlers

import (
	"github.com/gin-gonic/gin"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/pipeline"
	"fileconvert-backend/internal/storage"
)

type UploadHandler struct {
	cfg      *config.Config
	stager   *storage.Stager
	resolver *storage.Resolver
	pipeline *pipeline.Pipeline
}

func NewUploadHandler(cfg *config.Config, stager *storage.Stager, resolver *storage.Resolver, pl *pipeline.Pipeline) *UploadHandler {
	return &UploadHandler{
		cfg:      cfg,
		stager:   stager,
		resolver: resolver,
		pipeline: pl,
	}
}

// UploadSingle godoc
// @Summary     Upload one file
// @Description Stores one uploaded file under the project's destination folder and registers it.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       file formData file true "File payload"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/upload-single [post]
func (h *UploadHandler) UploadSingle(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "file", 1)
	if !ok {
		return
	}

	data, err := h.pipeline.Store(staged[0], project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, data, "File has been uploaded successfully!")
}

// UploadMultiple godoc
// @Summary     Upload up to five files
// @Description Stores each uploaded file under the project's destination folder and registers it.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       files formData file true "File payloads (max 5)"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/upload-mutiple [post]
func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "files", 5)
	if !ok {
		return
	}

	uploaded, err := h.pipeline.StoreAll(staged, project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, uploaded, "Files have been uploaded successfully!")
}

// UploadVoice godoc
// @Summary     Upload one audio file
// @Description Stores one audio payload; any audio/* MIME type is accepted.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       key formData string true "Project key"
// @Param       folder formData string true "Destination folder token"
// @Param       voice formData file true "Audio payload"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /file/upload-voice [post]
func (h *UploadHandler) UploadVoice(c *gin.Context) {
	staged, project, dest, ok := stageRequest(c, h.stager, h.resolver, "voice", 1)
	if !ok {
		return
	}

	if err := pipeline.ValidateBatch(staged, pipeline.ValidateVoice); err != nil {
		fail(c, err)
		return
	}

	data, err := h.pipeline.Store(staged[0], project, dest)
	if err != nil {
		fail(c, err)
		return
	}

	respondSuccess(c, data, "Voice has been uploaded successfully!")
}
