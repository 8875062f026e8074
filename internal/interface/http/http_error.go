package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// statusByCode maps domain error codes onto HTTP statuses.
var statusByCode = map[string]int{
	"invalid_input":        http.StatusBadRequest,
	"embedding_error":      http.StatusBadGateway,
	"llm_error":            http.StatusBadGateway,
	"weather_error":        http.StatusBadGateway,
	"knowledge_base_error": http.StatusServiceUnavailable,
	"dimension_mismatch":   http.StatusServiceUnavailable,
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if code := apperrors.CodeOf(err); code != "" {
		status, ok := statusByCode[code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &HTTPError{Status: status, Code: code, Message: err.Error(), Err: err}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
