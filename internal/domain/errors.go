package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParams     = errors.New("invalid parameters")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoDocuments       = errors.New("no documents found")
)

// WrapError attaches a semantic kind and the failing operation to err.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// InvalidParams reports a caller misuse of an operation.
func InvalidParams(operation, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", operation, ErrInvalidParams, fmt.Sprintf(format, args...))
}
