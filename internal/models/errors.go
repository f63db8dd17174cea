package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the API.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMissingField         = "MISSING_FIELD"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeInvalidFileType      = "INVALID_FILE_TYPE"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	CodeStorageFailure       = "STORAGE_FAILURE"
	CodeInternal             = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that a resource does not exist or is not visible to the caller.
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError reports a malformed value for a named input field.
func NewFieldValidationError(field, message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewUnauthenticatedError reports a missing or invalid session.
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

// NewForbiddenError reports a valid session with insufficient capability.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInvalidTypeError reports an unknown request type.
func NewInvalidTypeError(requestType string) *AppError {
	return &AppError{
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("unknown request type %q", requestType),
	}
}

// NewMissingFieldError reports an absent required payload field.
func NewMissingFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("field %q is required", field),
		Field:   field,
	}
}

// NewInvalidStatusError reports a status value outside the enumeration.
func NewInvalidStatusError(status string) *AppError {
	return &AppError{
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("invalid status %q", status),
	}
}

// NewInvalidTransitionError reports a status change out of a terminal state.
func NewInvalidTransitionError(from RequestStatus) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("request in status %q cannot be cancelled", from),
	}
}

// NewInvalidFileTypeError reports an attachment with a disallowed extension.
func NewInvalidFileTypeError(filename string) *AppError {
	return &AppError{
		Code:    CodeInvalidFileType,
		Message: fmt.Sprintf("file %q is not a PDF", filename),
	}
}

// NewUnsupportedOperationError reports an operation invalid for the request type.
func NewUnsupportedOperationError(requestType RequestType) *AppError {
	return &AppError{
		Code:    CodeUnsupportedOperation,
		Message: fmt.Sprintf("operation not supported for request type %q", requestType),
	}
}

// NewStorageFailureError reports a filesystem failure during attachment handling.
func NewStorageFailureError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageFailure,
		Message: "file storage operation failed",
		Err:     err,
	}
}

// NewInternalError wraps an unexpected failure; the detail is never sent to clients.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HTTPStatus maps an error to the HTTP status code it should produce.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeConflict:
		return fiber.StatusConflict
	case CodeValidation, CodeInvalidType, CodeMissingField, CodeInvalidStatus,
		CodeInvalidTransition, CodeInvalidFileType, CodeUnsupportedOperation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response.
// Wrapped internal detail is intentionally not included in the body.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Field: appErr.Field,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError writes the error with its taxonomy-derived status code.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, HTTPStatus(err), err)
}
