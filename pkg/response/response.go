package response

import (
	"net/http"

	"backend/pkg/apperr"
)

// Response represents the standard API response envelope
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// StatusFor maps an error's kind to the HTTP status code handlers should return.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds an error envelope with the status implied by the error's kind.
func FromError(err error) Response {
	return Error(StatusFor(err), err.Error())
}
