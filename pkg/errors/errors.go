package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// NotFoundError represents a resource that was not found
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents input rejected before any network call.
// Fields maps field API names to messages when more than one field failed.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
		}
		return fmt.Sprintf("validation error: %s", strings.Join(parts, "; "))
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}

// FieldMessage returns the message recorded for a field, if any
func (e *ValidationError) FieldMessage(field string) string {
	if msg, ok := e.Fields[field]; ok {
		return msg
	}
	if e.Field == field {
		return e.Message
	}
	return ""
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewFieldsValidationError creates a ValidationError covering several fields
func NewFieldsValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "one or more fields are invalid", Fields: fields}
}

// NetworkError represents a request that never reached the backend or never
// returned from it (DNS, refused connection, timeout, TLS).
type NetworkError struct {
	Method string
	URL    string
	Cause  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Cause)
}

func (e *NetworkError) HTTPStatus() int {
	return http.StatusBadGateway
}

func (e *NetworkError) Code() string {
	return "NETWORK_ERROR"
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(method, url string, cause error) *NetworkError {
	return &NetworkError{Method: method, URL: url, Cause: cause}
}

// ServerError represents a non-2xx answer from the backend. Message is taken
// from the response body when present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// HTTPStatus is the status the console answers with, not the upstream one.
func (e *ServerError) HTTPStatus() int {
	return http.StatusBadGateway
}

func (e *ServerError) Code() string {
	return "SERVER_ERROR"
}

// NewServerError creates a new ServerError
func NewServerError(status int, message string) *ServerError {
	return &ServerError{Status: status, Message: message}
}

// InternalError represents unexpected errors inside the console
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *InternalError) Code() string {
	return "INTERNAL_ERROR"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// Helper functions for error checking

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// AsValidation returns the ValidationError wrapped in err, or nil
func AsValidation(err error) *ValidationError {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation
	}
	return nil
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var network *NetworkError
	return errors.As(err, &network)
}

// IsServer checks if an error is a ServerError
func IsServer(err error) bool {
	var server *ServerError
	return errors.As(err, &server)
}

// GetHTTPStatus returns the HTTP status code for an error
// Returns 500 if the error doesn't implement AppError
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
// Returns "UNKNOWN_ERROR" if the error doesn't implement AppError
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
	}
	if v := AsValidation(err); v != nil && len(v.Fields) > 0 {
		resp.Details = v.Fields
	}
	return resp
}
