package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code, so derived errors
// such as NotFound("listing") still match ErrNotFound.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeValidation         = "VALIDATION_FAILED"
	CodeStorage            = "STORAGE_FAILURE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNoSeller           = "NO_SELLER"
	CodeInvalidToken       = "INVALID_TOKEN"
)

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists      = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation         = NewDomainError(CodeValidation, "Input failed validation")
	ErrStorage            = NewDomainError(CodeStorage, "Storage operation failed")
	ErrUnauthorized       = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden          = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")
	ErrNoSeller           = NewDomainError(CodeNoSeller, "No seller is associated with this user")
	ErrInvalidToken       = NewDomainError(CodeInvalidToken, "Token is invalid or expired")
)

// NotFound returns a NOT_FOUND error naming the missing entity
func NotFound(entity string) *DomainError {
	return NewDomainError(CodeNotFound, entity+" not exist")
}

// AlreadyExists returns an ALREADY_EXISTS error naming the conflicting entity
func AlreadyExists(entity string) *DomainError {
	return NewDomainError(CodeAlreadyExists, entity+" already exists")
}

// Validation returns a VALIDATION_FAILED error with the given message
func Validation(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Storage wraps an unexpected persistence or file I/O fault.
// Domain errors pass through untouched.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return &DomainError{Code: CodeStorage, Message: ErrStorage.Message, Err: err}
}
