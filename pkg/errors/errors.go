// Package errors provides the unified application error type returned by
// HTTP handlers.
package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/Vampire-js/techfiesta/internal/middleware"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError carries an error code, message, details, trace id and timestamp.
type AppError struct {
	// Code error code
	Code int `json:"code"`
	// Message error message
	Message string `json:"message"`
	// Details optional error details
	Details []string `json:"details,omitempty"`
	// TraceID request trace id
	TraceID string `json:"traceId,omitempty"`
	// Cause original error, not serialized
	Cause error `json:"-"`
	// Timestamp when the error happened
	Timestamp time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap supports errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError from a code object.
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// ErrorResponse renders err as the unified error JSON, attaching the
// request trace id.
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.JSON(http.StatusOK, appErr)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		c.JSON(http.StatusOK, &AppError{
			Code:      codeErr.Code(),
			Message:   codeErr.Msg(),
			Details:   codeErr.Details(),
			TraceID:   traceID,
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, &AppError{
		Code:      code.ErrorServerInternal.Code(),
		Message:   "Internal Server Error",
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}
