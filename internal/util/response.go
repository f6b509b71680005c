package util

import (
	"errors"
	"net/http"

	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every handler returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// Fail maps a service error onto the envelope: AppError kinds get their
// 4xx-equivalent status, anything else is a logged 500.
func Fail(c *gin.Context, err error) {
	var ae *AppError
	if !errors.As(err, &ae) {
		LogInternalError(c, err)
		return
	}

	switch ae.Kind {
	case KindValidation:
		Error(c, http.StatusBadRequest, ae.Message)
	case KindNotFound:
		Error(c, http.StatusNotFound, ae.Message)
	case KindConflict:
		Error(c, http.StatusConflict, ae.Message)
	case KindForbidden:
		Error(c, http.StatusForbidden, ae.Message)
	case KindUpload:
		Error(c, http.StatusBadGateway, ae.Message)
	case KindPayment:
		Error(c, http.StatusPaymentRequired, ae.Message)
	default:
		LogInternalError(c, err)
	}
}
