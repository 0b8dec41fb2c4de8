package core

import (
	"errors"
	"fmt"

	"portal-backend-go/internal/identity"
)

// Service errors. Handlers map these onto HTTP status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUserNotFound     = errors.New("user not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrRequestNotFound  = errors.New("request not found")

	ErrFileTooLarge         = errors.New("file too large")
	ErrFileTypeNotAllowed   = errors.New("file type not allowed")
	ErrStorageNotConfigured = errors.New("file storage is not configured")

	ErrEmailNotConfigured = errors.New("email service not configured")
	ErrEmailRejected      = errors.New("failed to send email")
	ErrTooManyRequests    = errors.New("too many requests, try again later")
)

// Identity provider error kinds, re-exported so handlers depend on core only.
var (
	ErrEmailExists       = identity.ErrEmailExists
	ErrAccountNotFound   = identity.ErrAccountNotFound
	ErrInvalidEmail      = identity.ErrInvalidEmail
	ErrIdentityArgument  = identity.ErrInvalidArgument
	ErrIdentityRateLimit = identity.ErrTooManyRequests
)

// invalidf wraps ErrInvalidInput with a message meant for the caller.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// FileError is a rejected upload. Error returns the message shown to users;
// Unwrap returns ErrFileTooLarge or ErrFileTypeNotAllowed.
type FileError struct {
	Kind    error
	Message string
}

func (e *FileError) Error() string { return e.Message }
func (e *FileError) Unwrap() error { return e.Kind }
