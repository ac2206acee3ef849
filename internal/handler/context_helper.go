package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/middleware"
	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

func userFromContext(c *gin.Context) *models.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return user
}

// pathID parses a numeric path parameter, answering 400 on garbage input.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "El identificador debe ser un número válido"))
		return 0, false
	}
	return id, true
}
