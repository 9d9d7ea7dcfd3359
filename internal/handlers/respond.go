package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fileconvert-backend/internal/middleware"
	"fileconvert-backend/internal/models"
	"fileconvert-backend/internal/shared"
	"fileconvert-backend/internal/storage"
)

func respondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{
		StatusCode: status,
		Error:      message,
	})
}

func fail(c *gin.Context, err error) {
	respondError(c, shared.StatusFor(err), err.Error())
}

// stageRequest performs the work common to every authenticated upload
// endpoint: validate the key/folder form fields against the authenticated
// project, stage the multipart payloads, and resolve the destination folder.
// On failure it has already responded and cleaned up any staged files.
func stageRequest(c *gin.Context, stager *storage.Stager, resolver *storage.Resolver, field string, maxFiles int) ([]*storage.StagedFile, *models.Project, string, bool) {
	project := c.MustGet(middleware.ProjectKey).(*models.Project)

	key := c.PostForm("key")
	folder := c.PostForm("folder")
	if msg := validateFields(key, folder, project); msg != "" {
		fail(c, fmt.Errorf("%w: %s", shared.ErrValidation, msg))
		return nil, nil, "", false
	}

	staged, err := stager.Stage(c, field, maxFiles)
	if err != nil {
		fail(c, err)
		return nil, nil, "", false
	}

	dest, err := resolver.Resolve(key, folder, time.Now())
	if err != nil {
		storage.Discard(staged...)
		fail(c, err)
		return nil, nil, "", false
	}

	return staged, project, dest, true
}

func validateFields(key, folder string, project *models.Project) string {
	switch {
	case key == "" && folder == "":
		return "fields key and folder are required"
	case folder == "":
		return "field folder is required"
	case key == "":
		return "field key is required"
	case key != project.Key:
		return "field key is invalid"
	}
	return ""
}
