package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
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

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type codeMapping struct {
	status int
	code   string
}

// Engine error codes and how they surface over HTTP. Unlisted codes are 500s
// under the caller's fallback code.
var appCodeMappings = map[string]codeMapping{
	apperrors.CodeInvalidInput: {status: http.StatusBadRequest, code: "invalid_request"},
	apperrors.CodeLookup:       {status: http.StatusInternalServerError, code: "lookup_failed"},
}

// fromAppError translates a service error into its HTTP form.
func fromAppError(err error, fallback string) *HTTPError {
	if m, ok := appCodeMappings[apperrors.CodeOf(err)]; ok {
		return NewHTTPError(m.status, m.code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallback, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
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

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
