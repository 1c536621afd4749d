package handler

import (
	"net/http"

	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgServerError = "Server error"

var kindStatus = map[service.ErrorKind]int{
	service.KindValidation: http.StatusBadRequest,
	service.KindConflict:   http.StatusBadRequest,
	service.KindAuth:       http.StatusUnauthorized,
	service.KindNotFound:   http.StatusNotFound,
	service.KindExternal:   http.StatusInternalServerError,
	service.KindInternal:   http.StatusInternalServerError,
}

// respondError writes err as {"error": "..."} with the status of its kind
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	serr, ok := service.AsError(err)
	if !ok {
		logger.Error("Unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgServerError})
		return
	}

	status, ok := kindStatus[serr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", serr.Kind.String()),
			zap.Error(err),
		)
	}

	c.JSON(status, dto.ErrorResponse{Error: serr.Message})
}

// bindJSON decodes the body into req, answering 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}
