package errors

import "fmt"

// ValidationError is raised when provided input is malformed,
// e.g. a required field is empty
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds ValidationError for field
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError is raised when entity with provided key doesn't exist
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Entity, e.Key)
}

// NewNotFoundError builds NotFoundError for entity key
func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// DuplicateKeyError is raised on attempt to create entity
// with already reserved key
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Key)
}

// NewDuplicateKeyError builds DuplicateKeyError for entity key
func NewDuplicateKeyError(entity, key string) error {
	return &DuplicateKeyError{Entity: entity, Key: key}
}

// PolicyViolationError is raised when actor is not permitted
// to perform the operation, no state change happens
type PolicyViolationError struct {
	Message string
}

func (e *PolicyViolationError) Error() string {
	return e.Message
}

// NewPolicyViolationError builds PolicyViolationError with message
func NewPolicyViolationError(msg string) error {
	return &PolicyViolationError{Message: msg}
}

// TransportError is raised when snapshot upload fails, it carries
// the remote diagnostic so admin can decide whether to retry manually
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("snapshot upload failed: %s", e.Message)
	}
	return fmt.Sprintf("snapshot upload failed with status %d: %s", e.StatusCode, e.Message)
}

// NewTransportError builds TransportError from remote response
func NewTransportError(statusCode int, msg string) error {
	return &TransportError{StatusCode: statusCode, Message: msg}
}
