package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fileconvert-backend/internal/models"
)

// FileSource is the catalog lookup the retrieval gateway needs.
type FileSource interface {
	GetFileByFilename(filename string) (*models.File, error)
}

type ServeHandler struct {
	files FileSource
}

func NewServeHandler(files FileSource) *ServeHandler {
	return &ServeHandler{files: files}
}

// Serve godoc
// @Summary     Serve a registered artifact
// @Description Streams the bytes of an artifact by its storage filename. The
// @Description catalog row and the file on disk must both exist.
// @Tags        files
// @Produce     octet-stream
// @Param       filename path string true "Storage filename"
// @Param       download query bool false "Send as attachment"
// @Success     200 {file} binary
// @Failure     404 {object} models.ErrorResponse
// @Router      /file/serve/{filename} [get]
func (h *ServeHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")
	download := c.Query("download") == "true"

	file, err := h.files.GetFileByFilename(filename)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to look up file")
		return
	}
	if file == nil {
		respondError(c, http.StatusNotFound, "File not found!")
		return
	}

	// Catalog and filesystem are checked independently; both must agree.
	if _, err := os.Stat(file.Path); err != nil {
		respondError(c, http.StatusNotFound, "File not found!")
		return
	}

	reader, err := os.Open(file.Path)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "error while reading the file")
		return
	}
	defer reader.Close()

	extraHeaders := map[string]string{}
	if download && file.OriginalName.Valid {
		extraHeaders["Content-Disposition"] = fmt.Sprintf("attachment; filename=%s", file.OriginalName.String)
	}

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, extraHeaders)
}
