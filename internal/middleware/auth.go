package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fileconvert-backend/internal/models"
)

// ProjectKey is the gin context key holding the authenticated *models.Project.
const ProjectKey = "project"

// ProjectSource resolves a bearer secret to its owning project.
type ProjectSource interface {
	GetProjectBySecret(secret string) (*models.Project, error)
}

// ProjectAuth authenticates requests with "Authorization: Bearer <secret>",
// where the secret must exactly match a provisioned project's secret.
func ProjectAuth(projects ProjectSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := bearerToken(c)
		if secret == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Error:      "Authorization failed! Secret must be provided",
			})
			c.Abort()
			return
		}

		project, err := projects.GetProjectBySecret(secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Error:      "Authorization failed! Invalid request",
			})
			c.Abort()
			return
		}
		if project == nil || project.Secret != secret {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Error:      "Authorization failed! Secret is invalid",
			})
			c.Abort()
			return
		}

		c.Set(ProjectKey, project)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
