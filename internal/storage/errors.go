package storage

import "errors"

// Sentinel errors wrapped by the *apperrors.Error values this package returns.
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrLengthMismatch = errors.New("number of files and names differ")
	ErrOutsideStorage = errors.New("path outside storage")
)
