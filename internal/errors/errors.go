// Package errors provides custom error types for the tally ledger engine.
// All service-layer errors use AppError so callers get stable machine codes
// and consistent responses that never leak internal details.
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
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Validation errors. Rejected before any state mutation; safe to retry after
// correcting input.
var (
	ErrDuplicateAccountName = &AppError{Code: "DUPLICATE_ACCOUNT_NAME", Message: "An account with this name already exists for the entity", StatusCode: http.StatusConflict}
	ErrDuplicateTaxCode     = &AppError{Code: "DUPLICATE_TAX_CODE", Message: "A tax with this code already exists for the entity", StatusCode: http.StatusConflict}
	ErrInvalidAmount        = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be non-negative and quantity positive", StatusCode: http.StatusBadRequest}
	ErrInvalidRate          = &AppError{Code: "INVALID_RATE", Message: "Tax rate must not be negative", StatusCode: http.StatusBadRequest}
	ErrInvalidDateRange     = &AppError{Code: "INVALID_DATE_RANGE", Message: "Start date must not be after end date", StatusCode: http.StatusBadRequest}
	ErrEmptyTransaction     = &AppError{Code: "EMPTY_TRANSACTION", Message: "A transaction with no line items cannot be posted", StatusCode: http.StatusBadRequest}
)

// State-conflict errors. Caller misuse; surfaced verbatim, never retried
// automatically.
var (
	ErrAlreadyPosted = &AppError{Code: "ALREADY_POSTED", Message: "Transaction is already posted", StatusCode: http.StatusConflict}
	ErrCrossEntity   = &AppError{Code: "CROSS_ENTITY", Message: "Referenced record belongs to a different entity", StatusCode: http.StatusForbidden}
)

// Integrity errors. Indicate an internal construction defect; the whole unit
// of work is aborted and the error surfaces as fatal.
var (
	ErrUnbalancedTransaction = &AppError{Code: "UNBALANCED_TRANSACTION", Message: "Transaction debits do not equal credits", StatusCode: http.StatusInternalServerError}
)

// Not-found errors. User-correctable: the ledger or record has to be set up
// first.
var (
	ErrEntityNotFound      = &AppError{Code: "ENTITY_NOT_FOUND", Message: "Entity not found; create the ledger first", StatusCode: http.StatusNotFound}
	ErrEntityExists        = &AppError{Code: "ENTITY_EXISTS", Message: "An entity with this name already exists", StatusCode: http.StatusConflict}
	ErrAccountNotFound     = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrTaxNotFound         = &AppError{Code: "TAX_NOT_FOUND", Message: "Tax not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)
