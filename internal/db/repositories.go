package db

// Repositories provides access to all database repositories
type Repositories struct {
	Items   *ItemRepository
	Folders *FolderRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Items:   NewItemRepository(db),
		Folders: NewFolderRepository(db),
	}
}
