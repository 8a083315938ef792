// Package apierr maps the error taxonomy of spec §7 onto HTTP status codes,
// following the teacher's internal/api ErrorCode/APIError shape.
package apierr

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies one of the taxonomy classes named in spec §7.
type ErrorCode string

const (
	// CodeInvalidInput covers malformed or type-mismatched request bodies.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	// CodeDataShape covers payloads that parse but don't match the
	// expected case-study/situation shape (e.g. a corrupt stored unit).
	CodeDataShape ErrorCode = "DATA_SHAPE"
	// CodeExternalProtocol covers malformed responses from an external
	// collaborator (embedder, LLM provider, store).
	CodeExternalProtocol ErrorCode = "EXTERNAL_PROTOCOL"
	// CodeNotFound covers lookups with no matching resource.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeInternal covers everything else.
	CodeInternal ErrorCode = "INTERNAL"
)

// APIError is an error carrying an HTTP status and a stable error code,
// written to the response body as JSON.
type APIError struct {
	Code       ErrorCode
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Response is the JSON body written for an APIError.
type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Response() Response {
	return Response{Error: string(e.Code), Message: e.Message}
}

func newf(code ErrorCode, status int, format string, args ...interface{}) *APIError {
	return &APIError{Code: code, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) *APIError {
	return newf(CodeInvalidInput, http.StatusBadRequest, format, args...)
}

func DataShape(format string, args ...interface{}) *APIError {
	return newf(CodeDataShape, http.StatusUnprocessableEntity, format, args...)
}

func ExternalProtocol(format string, args ...interface{}) *APIError {
	return newf(CodeExternalProtocol, http.StatusBadGateway, format, args...)
}

func NotFound(format string, args ...interface{}) *APIError {
	return newf(CodeNotFound, http.StatusNotFound, format, args...)
}

func Internal(format string, args ...interface{}) *APIError {
	return newf(CodeInternal, http.StatusInternalServerError, format, args...)
}
