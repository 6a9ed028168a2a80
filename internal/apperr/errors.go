// Package apperr defines the typed error taxonomy shared by every tool surface.
package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies a failure for boundary mapping (HTTP status, MCP error text).
type Kind int

const (
	// KindUnknown is the zero value for errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindInvalidArgument covers missing/empty parameters, invalid patterns,
	// and paths that are absolute or escape the vault root.
	KindInvalidArgument
	// KindNotFound covers absent notes or directories.
	KindNotFound
	// KindAlreadyExists covers rename/write target collisions.
	KindAlreadyExists
	// KindPermissionDenied covers provider-reported access failures.
	KindPermissionDenied
	// KindConflict covers optimistic-concurrency checksum mismatches.
	KindConflict
	// KindIO covers any other provider failure.
	KindIO
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindIO:
		return "io_error"
	default:
		return "unknown"
	}
}

// Error is a typed failure carrying a kind and a human-readable message
// that embeds the offending path and operation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or KindUnknown if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromOS maps an operating-system error to the taxonomy, embedding the
// operation and path in the message.
func FromOS(err error, op, path string) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return New(KindNotFound, "%s %s: not found", op, path)
	case errors.Is(err, fs.ErrPermission):
		return New(KindPermissionDenied, "%s %s: permission denied", op, path)
	case errors.Is(err, os.ErrExist):
		return New(KindAlreadyExists, "%s %s: already exists", op, path)
	default:
		return New(KindIO, "%s %s: %v", op, path, err)
	}
}
