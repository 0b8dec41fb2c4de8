package db

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store errors. Backend failures are mapped onto these at the store boundary
// so callers can use errors.Is instead of inspecting backend error codes.
var (
	ErrNotFound           = errors.New("document not found")
	ErrAlreadyExists      = errors.New("document already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrUnavailable        = errors.New("store unavailable")
)

// classify wraps err with the matching store sentinel, keeping the original
// error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var kind error
	switch status.Code(err) {
	case codes.NotFound:
		kind = ErrNotFound
	case codes.AlreadyExists:
		kind = ErrAlreadyExists
	case codes.PermissionDenied, codes.Unauthenticated:
		kind = ErrPermissionDenied
	case codes.FailedPrecondition:
		kind = ErrFailedPrecondition
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		kind = ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
