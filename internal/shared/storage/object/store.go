package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when no object exists for a key.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys a store refuses to resolve.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Source opens previously uploaded documents by storage key.
type Source interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
