// Package respond writes the JSON envelopes shared by every HTTP handler and maps
// apperr kinds to status codes.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/logging"
)

// Envelope is the success body: {"message": ..., "data": ...}.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is the failure body.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// Status maps an error kind to its HTTP status.
func Status(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrInvalidInput, apperr.ErrInvalidCredentials, apperr.ErrAlreadyExists:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// OK writes status with {"message": message, "data": data}.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Message: message, Data: data})
}

// Error writes the error body for err and aborts the chain. Internal errors are
// logged with their cause; the client only sees "Internal Server Error".
func Error(c *gin.Context, logger *slog.Logger, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logging.LogError(c.Request.Context(), logger, "request failed", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorBody{
		StatusCode: status,
		Message:    apperr.Message(err),
		Error:      http.StatusText(status),
	})
}

// MsgInvalidBody replaces decoder and binding errors, which name Go types and fields.
const MsgInvalidBody = "invalid request body"

// BindError answers 400 for a request body or path parameter that failed to bind.
// Only apperr messages reach the client.
func BindError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) && errors.Is(err, apperr.ErrInvalidInput) {
		Error(c, nil, e)
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	Error(c, nil, apperr.New(apperr.ErrInvalidInput, MsgInvalidBody))
}

// Unauthorized aborts with the uniform 401 body.
func Unauthorized(c *gin.Context) {
	Error(c, nil, apperr.New(apperr.ErrUnauthorized, "Unauthorized"))
}
