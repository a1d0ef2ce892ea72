package models

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a movie or series on a user's watchlist
type Item struct {
	ID        uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID    string     `json:"user_id" gorm:"type:text;not null;index;column:user_id"`
	Title     string     `json:"title" gorm:"type:text;not null;column:title"`
	Type      MediaType  `json:"type" gorm:"type:text;not null;column:type"`
	Watched   bool       `json:"watched" gorm:"type:integer;not null;default:0;column:watched"`
	WatchedAt *time.Time `json:"watched_at" gorm:"type:datetime;column:watched_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"type:datetime;not null;column:created_at"`
	Order     int        `json:"order" gorm:"type:integer;not null;column:position"`
	FolderID  *uuid.UUID `json:"folder_id" gorm:"type:text;index;column:folder_id"`
	IsD21     bool       `json:"is_d21" gorm:"type:integer;not null;default:0;column:is_d21"`
	Notes     *string    `json:"notes,omitempty" gorm:"type:text;column:notes"`
	Rating    Rating     `json:"rating,omitzero" gorm:"embedded;embeddedPrefix:rating_"`
	Season    *int       `json:"season,omitempty" gorm:"type:integer;column:season"`
	Episode   *int       `json:"episode,omitempty" gorm:"type:integer;column:episode"`
}

// TableName pins the gorm table name
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new unwatched standalone Item with generated UUID and timestamp
func NewItem(userID, title string, mediaType MediaType) *Item {
	return &Item{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Type:      mediaType,
		CreatedAt: time.Now().UTC(),
	}
}

// IsStandalone reports whether the item lives outside any folder
func (i *Item) IsStandalone() bool {
	return i.FolderID == nil
}

// InFolder reports whether the item lives in the given folder (nil = standalone)
func (i *Item) InFolder(folderID *uuid.UUID) bool {
	if i.FolderID == nil || folderID == nil {
		return i.FolderID == nil && folderID == nil
	}
	return *i.FolderID == *folderID
}

// Clone returns a deep copy so snapshots can be mutated without aliasing
func (i *Item) Clone() *Item {
	c := *i
	if i.WatchedAt != nil {
		t := *i.WatchedAt
		c.WatchedAt = &t
	}
	if i.FolderID != nil {
		id := *i.FolderID
		c.FolderID = &id
	}
	if i.Notes != nil {
		n := *i.Notes
		c.Notes = &n
	}
	if i.Rating.Value != nil {
		v := *i.Rating.Value
		c.Rating.Value = &v
	}
	if i.Season != nil {
		s := *i.Season
		c.Season = &s
	}
	if i.Episode != nil {
		e := *i.Episode
		c.Episode = &e
	}
	return &c
}
