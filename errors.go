// Package stash provides hybrid memory+disk key-value storage.
// This file contains domain-specific error types for storage operations.
package stash

import (
	"errors"
	"fmt"
)

// Sentinel errors for different failure modes.
// These identify specific types of failures in storage operations and can be
// checked using errors.Is() for error handling and testing.
var (
	// ErrNotFound indicates that no entry exists on disk for the requested key.
	// Returned by load operations when the key was never saved or was removed.
	ErrNotFound = errors.New("entry not found")

	// ErrEncodeData indicates that a value could not be serialized, even after
	// the envelope fallback for non-container root values was attempted.
	ErrEncodeData = errors.New("failed to encode data")

	// ErrDecodeData indicates that on-disk bytes could not be parsed as the
	// requested type, neither directly nor as an envelope around it.
	ErrDecodeData = errors.New("failed to decode data")

	// ErrCreateFile indicates that the filesystem reported a write failure
	// while persisting an entry (e.g., disk full, permission denied).
	ErrCreateFile = errors.New("failed to create file")

	// ErrDirectoryResolution indicates that the OS-provided base directory
	// could not be resolved or created during store construction.
	ErrDirectoryResolution = errors.New("failed to resolve base directory")

	// ErrCreateDirectory indicates that the store folder could not be created.
	ErrCreateDirectory = errors.New("failed to create directory")

	// ErrAttribute indicates that protection attributes could not be applied
	// to the store folder. This aborts construction; it is never swallowed.
	ErrAttribute = errors.New("failed to apply directory attributes")

	// ErrInvalidKey indicates that a key is empty or contains path separators
	// or traversal sequences and cannot be used as a file name.
	ErrInvalidKey = errors.New("invalid entry key")
)

// StorageError provides detailed context about storage operation failures.
// It wraps underlying errors with the operation name and the key being
// processed when the error occurred.
//
// StorageError implements the error interface and supports error wrapping,
// allowing it to be used with errors.Is() and errors.As().
type StorageError struct {
	// Op describes the operation that failed (e.g., "save", "load", "remove").
	Op string

	// Key is the entry key being processed when the error occurred.
	// Empty for operations that are not key-scoped (e.g., "removeAll").
	Key string

	// Err is the underlying error. It preserves the original error chain so
	// that sentinel checks via errors.Is() keep working through the wrapper.
	Err error
}

// Error implements the error interface. The message includes the operation
// and key context, e.g. "stash: load profile: entry not found".
func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("stash: %s: %s", e.Op, e.Err.Error())
	}
	return fmt.Sprintf("stash: %s %s: %s", e.Op, e.Key, e.Err.Error())
}

// Unwrap returns the underlying error to support error wrapping.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether this error was caused by a missing entry.
func (e *StorageError) IsNotFound() bool {
	return errors.Is(e.Err, ErrNotFound)
}

// newStorageError creates a StorageError for the given operation and key.
func newStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}
