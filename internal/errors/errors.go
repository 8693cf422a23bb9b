// Package errors provides the application error taxonomy.
// Service-layer errors are AppErrors so the HTTP layer can map them to a
// status code and a safe client message.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrRouteNotFound  = &AppError{Code: "ROUTE_NOT_FOUND", Message: "Route not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "STORAGE_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Operation errors.
var (
	ErrOperationNotFound    = &AppError{Code: "OPERATION_NOT_FOUND", Message: "Operation not found", StatusCode: http.StatusNotFound}
	ErrInvalidOperationType = &AppError{Code: "VALIDATION_ERROR", Message: "Operation type must be income or expense", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount        = &AppError{Code: "VALIDATION_ERROR", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrCategoryRequired     = &AppError{Code: "VALIDATION_ERROR", Message: "Category is required for expense operations", StatusCode: http.StatusBadRequest}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Analysis errors.
var (
	ErrAnalysisNotFound = &AppError{Code: "ANALYSIS_NOT_FOUND", Message: "Analysis not found", StatusCode: http.StatusNotFound}
)
