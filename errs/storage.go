package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// Storage & Document Specific Errors
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageRead        = errors.New("storage read failed")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrDocumentCorrupt    = errors.New("stored document corrupt")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewStorageReadError wraps a failed document read. Callers that can degrade
// to a default value should do so instead of surfacing this.
func NewStorageReadError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStorageRead,
		Details:    fmt.Sprintf("Failed to read document %q", key),
		Cause:      cause,
	}
}

// NewStorageWriteError wraps a failed document write. Writes of authoritative
// documents surface this to the caller; secondary writes swallow it.
func NewStorageWriteError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStorageWrite,
		Details:    fmt.Sprintf("Failed to write document %q", key),
		Cause:      cause,
	}
}

func NewStorageUnavailableError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Storage unavailable during %s", operation),
		Cause:      cause,
	}
}

// Storage Error Type Checkers
func IsStorageUnavailableError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrStorageRead) ||
		errors.Is(err, ErrStorageWrite)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
