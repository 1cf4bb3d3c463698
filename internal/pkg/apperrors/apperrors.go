package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies every error the livestock services can return.
// Handlers map kinds to HTTP statuses; only Conflict is worth retrying.
type Kind string

const (
	KindNotFound              Kind = "NOT_FOUND"
	KindDuplicateIdentifier   Kind = "DUPLICATE_IDENTIFIER"
	KindCapacityExceeded      Kind = "CAPACITY_EXCEEDED"
	KindInvalidTransition     Kind = "INVALID_TRANSITION"
	KindInconsistentReference Kind = "INCONSISTENT_REFERENCE"
	KindInvalidWeight         Kind = "INVALID_WEIGHT"
	KindTransactionConflict   Kind = "TRANSACTION_CONFLICT"
)

// Error carries a kind plus a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Duplicate(format string, args ...interface{}) *Error {
	return newf(KindDuplicateIdentifier, format, args...)
}

func CapacityExceeded(format string, args ...interface{}) *Error {
	return newf(KindCapacityExceeded, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return newf(KindInvalidTransition, format, args...)
}

func InconsistentReference(format string, args ...interface{}) *Error {
	return newf(KindInconsistentReference, format, args...)
}

func InvalidWeight(format string, args ...interface{}) *Error {
	return newf(KindInvalidWeight, format, args...)
}

func TransactionConflict(format string, args ...interface{}) *Error {
	return newf(KindTransactionConflict, format, args...)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FromStore normalizes storage errors that escape the precondition checks:
// unique-constraint races become DuplicateIdentifier, serialization/lock
// failures become TransactionConflict. Anything else passes through.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Duplicate("identifier already in use")
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key"):
		return Duplicate("identifier already in use")
	case strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlstate 40001"):
		return TransactionConflict("concurrent update conflict, retry the command")
	}
	return err
}

// HTTPStatus maps an error kind to the status the HTTP layer should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return 404
	case KindDuplicateIdentifier, KindCapacityExceeded, KindInvalidTransition:
		return 409
	case KindInconsistentReference, KindInvalidWeight:
		return 422
	case KindTransactionConflict:
		return 503
	default:
		return 500
	}
}
