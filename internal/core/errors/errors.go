package errors

import "github.com/gin-gonic/gin"

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpInvalidRequestError = "invalid_request"
	HttpNotFoundError       = "not_found"
)

// MsgServerError is the only message a client sees for a 500.
const MsgServerError = "Server error"

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// New builds a failure body.
func New(errorType, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	}
}

// Internal builds the generic 500 body. The cause is only exposed in gin debug mode.
func Internal(cause interface{}) ErrorResponse {
	resp := New(HttpInternalError, MsgServerError, nil)
	if gin.IsDebugging() && cause != nil {
		resp.Details = cause
	}
	return resp
}
