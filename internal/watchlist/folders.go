package watchlist

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// MaxFolderNameLength is the longest folder name accepted, in runes
const MaxFolderNameLength = 100

// ValidateFolderName trims name and checks it is non-empty, short enough and
// not already used by another folder of the snapshot, ignoring case. except is
// the folder being renamed, if any.
func ValidateFolderName(s *Snapshot, name string, except *uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyFolderName
	}
	if utf8.RuneCountInString(name) > MaxFolderNameLength {
		return "", ErrFolderNameTooLong
	}
	for _, folder := range s.Folders {
		if except != nil && folder.ID == *except {
			continue
		}
		if strings.EqualFold(folder.Name, name) {
			return "", ErrDuplicateFolderName
		}
	}
	return name, nil
}

// PlanCreateFolder plans a new folder ranked after every existing one
func PlanCreateFolder(s *Snapshot, userID, name string, now time.Time) (*models.Folder, *Batch, error) {
	name, err := ValidateFolderName(s, name, nil)
	if err != nil {
		return nil, nil, err
	}

	highest := 0
	for _, folder := range s.Folders {
		if folder.Order > highest {
			highest = folder.Order
		}
	}

	folder := &models.Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Order:     highest + 1,
		CreatedAt: now.UTC(),
	}
	return folder, NewBatch(SetFolder(folder)), nil
}

// PlanRenameFolder plans a rename. Renaming to the current name plans nothing.
func PlanRenameFolder(s *Snapshot, folderID uuid.UUID, name string) (*Batch, error) {
	folder := s.Folder(folderID)
	if folder == nil {
		return nil, ErrFolderNotFound
	}
	name, err := ValidateFolderName(s, name, &folderID)
	if err != nil {
		return nil, err
	}
	if name == folder.Name {
		return NewBatch(), nil
	}
	return NewBatch(UpdateFolder(folderID, FolderChanges{Name: Some(name)})), nil
}

// SortFoldersByName sorts folders by name, case-insensitive, for listings
func SortFoldersByName(folders []*models.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		a, b := strings.ToLower(folders[i].Name), strings.ToLower(folders[j].Name)
		if a != b {
			return a < b
		}
		return folders[i].Order < folders[j].Order
	})
}
