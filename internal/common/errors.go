// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError represents a standard structure for API errors.
// Only Message is exposed to clients.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError: StatusCode=%d, Code=%s, Message=%s", e.StatusCode, e.Code, e.Message)
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// WithMessage returns a copy of e carrying a different client message.
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// Is matches API errors by code so errors.Is(err, ErrNotFound) works on copies.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrBadRequest         = NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "Invalid request")
	ErrUnauthorized       = NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrForbidden          = NewAPIError(http.StatusForbidden, "FORBIDDEN", "forbidden")
	ErrNotFound           = NewAPIError(http.StatusNotFound, "NOT_FOUND", "Not found")
	ErrMethodNotAllowed   = NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	ErrConflict           = NewAPIError(http.StatusBadRequest, "CONFLICT", "Conflict")
	ErrInternalServer     = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Server error")
	ErrServiceUnavailable = NewAPIError(http.StatusInternalServerError, "SERVICE_UNAVAILABLE", "Payment provider not configured")
)

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewValidationAPIError builds a 400 from binding failures, reporting the first field in name order.
func NewValidationAPIError(errs validator.ValidationErrors) *APIError {
	details := FormatValidationErrors(errs)
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msg := ErrBadRequest.Message
	if len(fields) > 0 {
		msg = details[fields[0]]
	}
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    msg,
	}
}

// FormatValidationErrors converts validator.ValidationErrors into a map.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMap := make(map[string]string)
	for _, e := range errs {
		field := e.Field()
		name := lowerFirst(field)
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", name)
		case "email":
			message = fmt.Sprintf("The %s field must be a valid email address.", name)
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", name, e.Param())
		case "max":
			message = fmt.Sprintf("The %s field may not be greater than %s characters.", name, e.Param())
		case "oneof":
			message = fmt.Sprintf("The %s field must be one of the following values: %s.", name, e.Param())
		case "uuid", "uuid4":
			message = fmt.Sprintf("The %s field must be a valid id.", name)
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
