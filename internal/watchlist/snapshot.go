package watchlist

import (
	"sort"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// Snapshot is the full item and folder set of one user at a store revision
type Snapshot struct {
	Revision uint64
	Items    []*models.Item
	Folders  []*models.Folder
}

// NewSnapshot builds a snapshot from items and folders
func NewSnapshot(items []*models.Item, folders []*models.Folder) *Snapshot {
	return &Snapshot{Items: items, Folders: folders}
}

// Item looks up an item by id
func (s *Snapshot) Item(id uuid.UUID) *models.Item {
	for _, item := range s.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Folder looks up a folder by id
func (s *Snapshot) Folder(id uuid.UUID) *models.Folder {
	for _, folder := range s.Folders {
		if folder.ID == id {
			return folder
		}
	}
	return nil
}

// HasFolder reports whether folderID is nil (standalone) or a known folder
func (s *Snapshot) HasFolder(folderID *uuid.UUID) bool {
	return folderID == nil || s.Folder(*folderID) != nil
}

// PartitionItems returns the members of p sorted by rank
func (s *Snapshot) PartitionItems(p Partition) []*models.Item {
	var members []*models.Item
	for _, item := range s.Items {
		if p.Contains(item) {
			members = append(members, item)
		}
	}
	SortByOrder(members)
	return members
}

// Partitions returns every partition that has at least one member
func (s *Snapshot) Partitions() []Partition {
	seen := make(map[Partition]bool)
	var out []Partition
	for _, item := range s.Items {
		p := PartitionOf(item)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// FolderItems returns every item in folderID regardless of partition
func (s *Snapshot) FolderItems(folderID uuid.UUID) []*models.Item {
	var out []*models.Item
	for _, item := range s.Items {
		if item.FolderID != nil && *item.FolderID == folderID {
			out = append(out, item)
		}
	}
	return out
}

// FolderCounts returns the number of items per folder, zero for empty folders
func (s *Snapshot) FolderCounts() map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(s.Folders))
	for _, folder := range s.Folders {
		counts[folder.ID] = 0
	}
	for _, item := range s.Items {
		if item.FolderID == nil {
			continue
		}
		if _, ok := counts[*item.FolderID]; ok {
			counts[*item.FolderID]++
		}
	}
	return counts
}

// Clone deep-copies the snapshot
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Revision: s.Revision,
		Items:    make([]*models.Item, len(s.Items)),
		Folders:  make([]*models.Folder, len(s.Folders)),
	}
	for i, item := range s.Items {
		c.Items[i] = item.Clone()
	}
	for i, folder := range s.Folders {
		c.Folders[i] = folder.Clone()
	}
	return c
}

// Apply returns a copy of the snapshot with batch applied and the revision
// bumped. Updates and deletes of unknown documents are ignored.
func (s *Snapshot) Apply(batch *Batch) *Snapshot {
	next := s.Clone()
	for _, m := range batch.Mutations() {
		switch m.Collection {
		case CollectionItems:
			next.Items = applyItemMutation(next.Items, m)
		case CollectionFolders:
			next.Folders = applyFolderMutation(next.Folders, m)
		}
	}
	if !batch.Empty() {
		next.Revision++
	}
	return next
}

func applyItemMutation(items []*models.Item, m Mutation) []*models.Item {
	switch m.Op {
	case OpSet:
		for i, item := range items {
			if item.ID == m.ID {
				items[i] = m.Item.Clone()
				return items
			}
		}
		return append(items, m.Item.Clone())
	case OpUpdate:
		for _, item := range items {
			if item.ID == m.ID && m.ItemChanges != nil {
				m.ItemChanges.Apply(item)
			}
		}
	case OpDelete:
		out := items[:0]
		for _, item := range items {
			if item.ID != m.ID {
				out = append(out, item)
			}
		}
		return out
	}
	return items
}

func applyFolderMutation(folders []*models.Folder, m Mutation) []*models.Folder {
	switch m.Op {
	case OpSet:
		for i, folder := range folders {
			if folder.ID == m.ID {
				folders[i] = m.Folder.Clone()
				return folders
			}
		}
		return append(folders, m.Folder.Clone())
	case OpUpdate:
		for _, folder := range folders {
			if folder.ID == m.ID && m.FolderChanges != nil {
				m.FolderChanges.Apply(folder)
			}
		}
	case OpDelete:
		out := folders[:0]
		for _, folder := range folders {
			if folder.ID != m.ID {
				out = append(out, folder)
			}
		}
		return out
	}
	return folders
}

// SortByOrder sorts items by rank. Ties fall back to creation time and id so
// colliding ranks still produce a deterministic sequence.
func SortByOrder(items []*models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
