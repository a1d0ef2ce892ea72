package watchlist

import "errors"

// Engine errors. Validation errors are returned before any mutation is planned.
var (
	// ErrEmptyTitle indicates an item title is blank after trimming
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidType indicates the media type is neither movie nor series
	ErrInvalidType = errors.New("type must be movie or series")

	// ErrInvalidRating indicates a rating outside [0, 10]
	ErrInvalidRating = errors.New("rating must be between 0 and 10")

	// ErrRatingRequiresWatched indicates a rating was given for an unwatched item
	ErrRatingRequiresWatched = errors.New("only watched items can be rated")

	// ErrEpisodeRequiresSeries indicates season/episode were given for a movie
	ErrEpisodeRequiresSeries = errors.New("season and episode apply to series only")

	// ErrInvalidEpisode indicates a non-positive season or episode number
	ErrInvalidEpisode = errors.New("season and episode must be positive")

	// ErrEmptyFolderName indicates a folder name is blank after trimming
	ErrEmptyFolderName = errors.New("folder name cannot be empty")

	// ErrFolderNameTooLong indicates a folder name exceeds MaxFolderNameLength
	ErrFolderNameTooLong = errors.New("folder name is too long")

	// ErrDuplicateFolderName indicates another folder already uses the name (case-insensitive)
	ErrDuplicateFolderName = errors.New("folder name already exists")

	// ErrFolderNotFound indicates the target folder is not part of the snapshot
	ErrFolderNotFound = errors.New("folder not found")

	// ErrItemNotFound indicates the item is not part of the snapshot
	ErrItemNotFound = errors.New("item not found")

	// ErrFolderTypeMismatch indicates a move would mix movies and series in one folder
	ErrFolderTypeMismatch = errors.New("folder already holds unwatched items of another type")

	// ErrCrossPartition indicates a reorder between items of different partitions
	ErrCrossPartition = errors.New("items belong to different partitions")

	// ErrViewMismatch indicates a bulk move selected items outside the active view
	ErrViewMismatch = errors.New("selected items do not belong to the active view")

	// ErrInvalidView indicates an unknown view name
	ErrInvalidView = errors.New("view must be movies, series or watched")

	// ErrNoItems indicates a batch insert had nothing to insert
	ErrNoItems = errors.New("no items to add")
)

// IsValidation reports whether err is a validation error that must be surfaced
// to the user before any write is attempted
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyTitle, ErrInvalidType, ErrInvalidRating, ErrRatingRequiresWatched,
		ErrEpisodeRequiresSeries, ErrInvalidEpisode, ErrEmptyFolderName,
		ErrFolderNameTooLong, ErrDuplicateFolderName, ErrFolderTypeMismatch,
		ErrCrossPartition, ErrViewMismatch, ErrInvalidView, ErrNoItems,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err refers to a missing item or folder
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrFolderNotFound)
}
