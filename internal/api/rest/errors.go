package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/api/shared/errors"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
)

// errorResponse wraps an API error under the "error" key
type errorResponse struct {
	Error *errors.APIError `json:"error"`
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errors.NewBadRequestError(message, details...)})
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errorResponse{Error: errors.NewNotFoundError(message, details...)})
}

// respondInternalError logs err and responds with a generic internal server error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.ErrorCtx(c.Request.Context(), err, fields...)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errors.NewInternalError(message)})
}
