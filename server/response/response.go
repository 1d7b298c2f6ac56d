package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apiError "messagebox/errors"
)

// JSON writes data as the response body with the given status.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error writes the error payload shape used across the API.
func Error(c *gin.Context, status int, description string) {
	c.JSON(status, gin.H{"description": description})
}

// HandleErrors maps an error to its response. Application errors carry
// their own status and description; anything else becomes an opaque 500
// so store internals never leak to the caller.
func HandleErrors(c *gin.Context, err error) {
	if appErr, ok := apiError.As(err); ok {
		Error(c, appErr.Status, appErr.Message)
		return
	}
	Error(c, http.StatusInternalServerError, "internal server error")
}
