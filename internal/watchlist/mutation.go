package watchlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// Op is the kind of write a mutation performs
type Op string

// Mutation ops
const (
	OpSet    Op = "set"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Collection names the store collection a mutation targets
type Collection string

// Collections
const (
	CollectionItems   Collection = "items"
	CollectionFolders Collection = "folders"
)

// Optional marks a field as written by an update. A zero Optional leaves the
// stored value alone.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns an Optional that writes v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// ItemChanges lists the item fields an update writes
type ItemChanges struct {
	Title     Optional[string]
	Type      Optional[models.MediaType]
	Watched   Optional[bool]
	WatchedAt Optional[*time.Time]
	Order     Optional[int]
	FolderID  Optional[*uuid.UUID]
	IsD21     Optional[bool]
	Notes     Optional[*string]
	Rating    Optional[models.Rating]
	Season    Optional[*int]
	Episode   Optional[*int]
}

// merge overlays the written fields of other onto c
func (c *ItemChanges) merge(other *ItemChanges) {
	if other.Title.Set {
		c.Title = other.Title
	}
	if other.Type.Set {
		c.Type = other.Type
	}
	if other.Watched.Set {
		c.Watched = other.Watched
	}
	if other.WatchedAt.Set {
		c.WatchedAt = other.WatchedAt
	}
	if other.Order.Set {
		c.Order = other.Order
	}
	if other.FolderID.Set {
		c.FolderID = other.FolderID
	}
	if other.IsD21.Set {
		c.IsD21 = other.IsD21
	}
	if other.Notes.Set {
		c.Notes = other.Notes
	}
	if other.Rating.Set {
		c.Rating = other.Rating
	}
	if other.Season.Set {
		c.Season = other.Season
	}
	if other.Episode.Set {
		c.Episode = other.Episode
	}
}

// Apply writes the changes onto item
func (c *ItemChanges) Apply(item *models.Item) {
	if c.Title.Set {
		item.Title = c.Title.Value
	}
	if c.Type.Set {
		item.Type = c.Type.Value
	}
	if c.Watched.Set {
		item.Watched = c.Watched.Value
	}
	if c.WatchedAt.Set {
		item.WatchedAt = c.WatchedAt.Value
	}
	if c.Order.Set {
		item.Order = c.Order.Value
	}
	if c.FolderID.Set {
		item.FolderID = c.FolderID.Value
	}
	if c.IsD21.Set {
		item.IsD21 = c.IsD21.Value
	}
	if c.Notes.Set {
		item.Notes = c.Notes.Value
	}
	if c.Rating.Set {
		item.Rating = c.Rating.Value
	}
	if c.Season.Set {
		item.Season = c.Season.Value
	}
	if c.Episode.Set {
		item.Episode = c.Episode.Value
	}
}

// FolderChanges lists the folder fields an update writes
type FolderChanges struct {
	Name  Optional[string]
	Order Optional[int]
}

func (c *FolderChanges) merge(other *FolderChanges) {
	if other.Name.Set {
		c.Name = other.Name
	}
	if other.Order.Set {
		c.Order = other.Order
	}
}

// Apply writes the changes onto folder
func (c *FolderChanges) Apply(folder *models.Folder) {
	if c.Name.Set {
		folder.Name = c.Name.Value
	}
	if c.Order.Set {
		folder.Order = c.Order.Value
	}
}

// Mutation is a single write against the store
type Mutation struct {
	Op         Op
	Collection Collection
	ID         uuid.UUID

	// Set payloads
	Item   *models.Item
	Folder *models.Folder

	// Update payloads
	ItemChanges   *ItemChanges
	FolderChanges *FolderChanges
}

// SetItem returns a mutation inserting item
func SetItem(item *models.Item) Mutation {
	return Mutation{Op: OpSet, Collection: CollectionItems, ID: item.ID, Item: item}
}

// UpdateItem returns a mutation updating item id
func UpdateItem(id uuid.UUID, changes ItemChanges) Mutation {
	return Mutation{Op: OpUpdate, Collection: CollectionItems, ID: id, ItemChanges: &changes}
}

// DeleteItem returns a mutation deleting item id
func DeleteItem(id uuid.UUID) Mutation {
	return Mutation{Op: OpDelete, Collection: CollectionItems, ID: id}
}

// SetFolder returns a mutation inserting folder
func SetFolder(folder *models.Folder) Mutation {
	return Mutation{Op: OpSet, Collection: CollectionFolders, ID: folder.ID, Folder: folder}
}

// UpdateFolder returns a mutation updating folder id
func UpdateFolder(id uuid.UUID, changes FolderChanges) Mutation {
	return Mutation{Op: OpUpdate, Collection: CollectionFolders, ID: id, FolderChanges: &changes}
}

// DeleteFolder returns a mutation deleting folder id
func DeleteFolder(id uuid.UUID) Mutation {
	return Mutation{Op: OpDelete, Collection: CollectionFolders, ID: id}
}

type mutationKey struct {
	collection Collection
	id         uuid.UUID
}

// Batch is an ordered set of mutations committed atomically. Updates to the
// same document are merged so each document is written at most once.
type Batch struct {
	mutations []Mutation
	index     map[mutationKey]int
}

// NewBatch creates a batch holding muts
func NewBatch(muts ...Mutation) *Batch {
	b := &Batch{}
	b.Add(muts...)
	return b
}

// Add appends mutations, merging updates into an earlier set or update of the
// same document. A delete replaces whatever was planned for the document and
// later updates to it are dropped.
func (b *Batch) Add(muts ...Mutation) {
	if b.index == nil {
		b.index = make(map[mutationKey]int)
	}
	for _, m := range muts {
		key := mutationKey{collection: m.Collection, id: m.ID}
		pos, seen := b.index[key]
		if !seen {
			b.index[key] = len(b.mutations)
			b.mutations = append(b.mutations, m)
			continue
		}

		existing := &b.mutations[pos]
		switch {
		case m.Op == OpDelete:
			*existing = m
		case existing.Op == OpDelete:
			// deleted documents stay deleted
		case m.Op == OpUpdate && existing.Op == OpSet:
			if existing.Item != nil && m.ItemChanges != nil {
				m.ItemChanges.Apply(existing.Item)
			}
			if existing.Folder != nil && m.FolderChanges != nil {
				m.FolderChanges.Apply(existing.Folder)
			}
		case m.Op == OpUpdate && existing.Op == OpUpdate:
			if existing.ItemChanges != nil && m.ItemChanges != nil {
				existing.ItemChanges.merge(m.ItemChanges)
			}
			if existing.FolderChanges != nil && m.FolderChanges != nil {
				existing.FolderChanges.merge(m.FolderChanges)
			}
		default:
			*existing = m
		}
	}
}

// Merge appends every mutation of other
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.Add(other.mutations...)
}

// Mutations returns the planned writes in order
func (b *Batch) Mutations() []Mutation {
	if b == nil {
		return nil
	}
	return b.mutations
}

// Len returns the number of planned writes
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.mutations)
}

// Empty reports whether the batch plans no writes
func (b *Batch) Empty() bool {
	return b.Len() == 0
}

// ItemChangesFor returns the merged update planned for item id, if any
func (b *Batch) ItemChangesFor(id uuid.UUID) (*ItemChanges, bool) {
	if b == nil || b.index == nil {
		return nil, false
	}
	pos, ok := b.index[mutationKey{collection: CollectionItems, id: id}]
	if !ok || b.mutations[pos].Op != OpUpdate {
		return nil, false
	}
	return b.mutations[pos].ItemChanges, true
}

// Count returns the number of mutations of the given op and collection
func (b *Batch) Count(op Op, collection Collection) int {
	n := 0
	for _, m := range b.Mutations() {
		if m.Op == op && m.Collection == collection {
			n++
		}
	}
	return n
}
