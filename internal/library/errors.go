package library

import (
	"errors"

	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// Custom library service errors
var (
	// ErrInvalidBackup indicates an import payload is not a JSON array of items
	ErrInvalidBackup = errors.New("invalid backup file format: expected an array of items")

	// ErrEmptySelection indicates a selection action was requested with nothing selected
	ErrEmptySelection = errors.New("no items selected")
)

// IsInvalidBackup checks if the error is an invalid backup error
func IsInvalidBackup(err error) bool {
	return errors.Is(err, ErrInvalidBackup)
}

// IsEmptySelection checks if the error is an empty selection error
func IsEmptySelection(err error) bool {
	return errors.Is(err, ErrEmptySelection)
}

// IsValidation reports whether err was rejected before anything was written
func IsValidation(err error) bool {
	return watchlist.IsValidation(err) || IsInvalidBackup(err) || IsEmptySelection(err)
}

// IsConflict reports whether err is a name clash with an existing folder
func IsConflict(err error) bool {
	return errors.Is(err, watchlist.ErrDuplicateFolderName)
}

// IsNotFound reports whether err refers to a missing item or folder
func IsNotFound(err error) bool {
	return watchlist.IsNotFound(err)
}
