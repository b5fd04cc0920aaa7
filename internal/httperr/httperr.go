package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Message string `json:"error_message"`
	Code    string `json:"error_code"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Message: message,
		Code:    code,
	})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Respond writes err as the structured error body. Business outcomes are
// logged at info; only unclassified or internal errors are logged as errors.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrInternal(err).(*Error)
	}

	fields := []zap.Field{
		zap.String("error_code", e.Code),
		zap.String("path", c.FullPath()),
	}

	if e.Code == CodeInternal {
		log.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		log.Info("request rejected", append(fields, zap.String("reason", e.Message))...)
	}

	c.AbortWithStatusJSON(e.Status(), HTTPError{
		Message: e.Message,
		Code:    e.Code,
		Details: e.Details,
	})
}
