// Package apperrors defines the typed error taxonomy shared by the
// repository, service, and handler layers.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed input field. It is raised before any
// store access, so the caller can correct and resubmit.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s (field %q, value %v)", e.Message, e.Field, e.Value)
}

// NewValidationError creates a validation error carrying the offending field and value.
func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DocumentNotFoundError reports an operation that targeted a nonexistent document.
type DocumentNotFoundError struct {
	ID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document %q not found", e.ID)
}

// NewNotFoundError creates a not-found error for the given document id.
func NewNotFoundError(id string) *DocumentNotFoundError {
	return &DocumentNotFoundError{ID: id}
}

// DuplicateDocumentError reports an id collision on create.
type DuplicateDocumentError struct {
	ID string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %q already exists", e.ID)
}

// ConflictError reports a lost optimistic-concurrency race: the document was
// modified between the caller's read and write. The caller should reload and retry.
type ConflictError struct {
	ID              string
	ExpectedVersion int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("document %q was modified concurrently (expected version %d)", e.ID, e.ExpectedVersion)
}

// InvalidTransitionError reports a status change rejected by the transition table.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("status transition %s -> %s is not allowed", e.From, e.To)
}

// StorageError wraps an underlying store failure with operation context.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps err in a StorageError unless it is already part of the
// taxonomy (not-found, duplicate, conflict, invalid transition pass through
// unchanged).
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *DocumentNotFoundError
	var dup *DuplicateDocumentError
	var cf *ConflictError
	var it *InvalidTransitionError
	if errors.As(err, &nf) || errors.As(err, &dup) || errors.As(err, &cf) || errors.As(err, &it) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a DocumentNotFoundError.
func IsNotFound(err error) bool {
	var nf *DocumentNotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var cf *ConflictError
	return errors.As(err, &cf)
}
