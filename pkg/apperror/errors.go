package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Request Validation (VAL) ----

// Validation rejects a malformed request before it reaches the policy
// evaluator.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Transaction Lifecycle (TXN) ----

// ErrTransactionNotFound reports an unknown transaction identity.
func ErrTransactionNotFound(id string) *AppError {
	return New("TXN_001", fmt.Sprintf("transaction %s not found", id), http.StatusNotFound)
}

// ErrInvalidStateTransition reports an operation that is not legal for the
// transaction's current status. The message always names both states so
// denials are never silent.
func ErrInvalidStateTransition(from, to string) *AppError {
	return New("TXN_002",
		fmt.Sprintf("invalid state transition: %s -> %s", from, to),
		http.StatusConflict)
}

// ErrDuplicateSettlement reports a replayed capture confirmation for a
// transaction that already carries a settlement reference.
func ErrDuplicateSettlement(reference string) *AppError {
	return New("TXN_003",
		fmt.Sprintf("settlement already recorded with reference %s", reference),
		http.StatusConflict)
}

// ---- Budget Ledger (LGR) ----

// ErrLedgerCeiling reports a commit that would push spent past the ceiling.
// Unreachable when the settlement guard is correct, checked defensively.
func ErrLedgerCeiling() *AppError {
	return New("LGR_001", "commit would exceed budget ceiling", http.StatusUnprocessableEntity)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
