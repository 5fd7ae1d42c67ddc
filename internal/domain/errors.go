package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for business logic errors.
const (
	CodeNotFound      = 1
	CodeAlreadyExists = 2
	CodeValidation    = 3
	CodeInternal      = 4
	CodeBusy          = 5
)

// AppError represents a business logic error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined business errors.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsBusy, etc.) instead of
// errors.Is. The helpers compare error codes, so they also match freshly
// constructed instances from NewAppError and wrapped errors.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrBusy          = &AppError{Code: CodeBusy, Message: "another request for this record is still in progress"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsAlreadyExists reports whether err is or wraps an AppError with CodeAlreadyExists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, CodeAlreadyExists)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation
// or a client-side *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// IsBusy reports whether err is or wraps an AppError with CodeBusy.
func IsBusy(err error) bool {
	return hasCode(err, CodeBusy)
}

// hasCode checks whether err is or wraps an *AppError with the given code.
func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// If the error is an *AppError, the code is mapped; otherwise http.StatusInternalServerError is returned.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeAlreadyExists:
			return http.StatusConflict
		case CodeValidation:
			return http.StatusBadRequest
		case CodeInternal:
			return http.StatusInternalServerError
		case CodeBusy:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// RequestError is returned by remote HR API calls. A zero Status means the
// request never produced a response (network error); any other value is the
// non-2xx status the server answered with.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return "network error: " + e.Err.Error()
		}
		return "network error: " + e.Message
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// Unwrap returns the underlying transport error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether no response was received.
func (e *RequestError) IsNetwork() bool {
	return e.Status == 0
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *RequestError {
	msg := "network error"
	if err != nil {
		msg = err.Error()
	}
	return &RequestError{Message: msg, Err: err}
}

// NewServerError builds the error for a non-2xx response.
func NewServerError(status int, message string) *RequestError {
	return &RequestError{Status: status, Message: message}
}

// IsNetworkError reports whether err is or wraps a RequestError without a response.
func IsNetworkError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.IsNetwork()
}

// IsServerError reports whether err is or wraps a RequestError carrying a status.
func IsServerError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && !re.IsNetwork()
}

// ValidationError is a client-side, pre-submission failure on a single draft field.
type ValidationError struct {
	Field string
	Tag   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tag == "" || e.Tag == "required" {
		return e.Field + " is required"
	}
	return e.Field + " failed " + e.Tag + " check"
}

// UserMessage extracts a message that is safe to show in a toast or form.
// Validation, not-found, conflict and busy messages pass through, as do server
// messages from the remote API; everything else collapses to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var re *RequestError
	if errors.As(err, &re) {
		if re.IsNetwork() {
			return "Unable to reach the server, please try again"
		}
		if re.Message != "" && re.Status < http.StatusInternalServerError {
			return re.Message
		}
		return fallback
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case CodeNotFound, CodeAlreadyExists, CodeValidation, CodeBusy:
			return appErr.Message
		}
	}
	return fallback
}
