package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

// JSON sends the resource as the response body. The SPA consumes bare objects
// and arrays, so there is no envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Message sends a {"message": ...} body with the given status.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, gin.H{"message": message})
}

// Error converts the error to the contract's error shape: field-level
// validation failures become {"errors": [...]}, everything else {"message": ...}.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	if len(appErr.Details) > 0 {
		c.JSON(appErr.Status, gin.H{"errors": appErr.Details})
		return
	}
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
