package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups watchlist items. Order ranks folders among themselves and has
// no bearing on the order of the items inside.
type Folder struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID    string    `json:"user_id" gorm:"type:text;not null;index;column:user_id"`
	Name      string    `json:"name" gorm:"type:text;not null;column:name"`
	Order     int       `json:"order" gorm:"type:integer;not null;column:position"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;not null;column:created_at"`
}

// TableName pins the gorm table name
func (Folder) TableName() string {
	return "folders"
}

// NewFolder creates a new Folder with generated UUID and timestamp
func NewFolder(userID, name string, order int) *Folder {
	return &Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a copy of the folder
func (f *Folder) Clone() *Folder {
	c := *f
	return &c
}
