package watchlist

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// MoveToFolder moves one item into target (nil = standalone).
//
// The source partition is re-ranked without the item. Unwatched items are
// appended to the destination partition; watched items keep their rank since
// watched ordering inside folders is not load-bearing. Moving to the current
// folder, or moving an item that is no longer in the snapshot, plans nothing.
func MoveToFolder(s *Snapshot, itemID uuid.UUID, target *uuid.UUID) (*Batch, error) {
	item := s.Item(itemID)
	if item == nil || item.InFolder(target) {
		return NewBatch(), nil
	}
	if !s.HasFolder(target) {
		return nil, ErrFolderNotFound
	}
	if !item.Watched {
		if err := checkFolderPurity(s, target, item.Type, map[uuid.UUID]bool{itemID: true}); err != nil {
			return nil, err
		}
	}

	b := NewBatch(UpdateItem(itemID, ItemChanges{FolderID: Some(cloneID(target))}))

	source := s.PartitionItems(PartitionOf(item))
	b.Add(ReassignRanks(without(source, map[uuid.UUID]bool{itemID: true}))...)

	if !item.Watched {
		dest := UnwatchedPartition(item.Type, target)
		b.Add(UpdateItem(itemID, ItemChanges{Order: Some(NextOrder(s, dest))}))
	}

	return b, nil
}

// SetWatched flips an item between the watched and unwatched lists.
//
// Marking watched stamps watchedAt and turns an unset rating into an explicit
// null; folder and rank are untouched. Marking unwatched clears watchedAt,
// drops the rating entirely, detaches the item to standalone so it lands in a
// type-pure place, and ranks it after every unwatched item of its type.
func SetWatched(s *Snapshot, itemID uuid.UUID, watched bool, now time.Time) *Batch {
	item := s.Item(itemID)
	if item == nil || item.Watched == watched {
		return NewBatch()
	}

	if watched {
		at := now.UTC()
		changes := ItemChanges{
			Watched:   Some(true),
			WatchedAt: Some(&at),
		}
		if item.Rating.IsUnset() {
			changes.Rating = Some(models.RatingNull())
		}
		return NewBatch(UpdateItem(itemID, changes))
	}

	highest := 0
	for _, other := range s.Items {
		if !other.Watched && other.Type == item.Type && other.Order > highest {
			highest = other.Order
		}
	}

	return NewBatch(UpdateItem(itemID, ItemChanges{
		Watched:   Some(false),
		WatchedAt: Some[*time.Time](nil),
		Rating:    Some(models.RatingUnset()),
		FolderID:  Some[*uuid.UUID](nil),
		Order:     Some(highest + 1),
	}))
}

// BulkMove moves the selected items of view into target.
//
// In the watched view only folder membership changes. In the movies/series
// views the destination's highest rank is read once and the items, sorted by
// their current rank, are appended after it; every source partition they left
// is then re-ranked. Items already in target are skipped.
func BulkMove(s *Snapshot, ids []uuid.UUID, target *uuid.UUID, view View) (*Batch, error) {
	if !s.HasFolder(target) {
		return nil, ErrFolderNotFound
	}

	var moving []*models.Item
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		item := s.Item(id)
		if item == nil || seen[id] {
			continue
		}
		seen[id] = true
		if ViewFor(item) != view {
			return nil, ErrViewMismatch
		}
		if item.InFolder(target) {
			continue
		}
		moving = append(moving, item)
	}

	b := NewBatch()
	if len(moving) == 0 {
		return b, nil
	}

	if view.IsWatched() {
		for _, item := range moving {
			b.Add(UpdateItem(item.ID, ItemChanges{FolderID: Some(cloneID(target))}))
		}
		return b, nil
	}

	itemType := view.MediaType()
	if err := checkFolderPurity(s, target, itemType, seen); err != nil {
		return nil, err
	}

	SortByOrder(moving)
	next := MaxOrder(s.PartitionItems(UnwatchedPartition(itemType, target)))
	var sources []Partition
	vacated := make(map[Partition]bool)
	for _, item := range moving {
		next++
		b.Add(UpdateItem(item.ID, ItemChanges{
			FolderID: Some(cloneID(target)),
			Order:    Some(next),
		}))
		p := PartitionOf(item)
		if !vacated[p] {
			vacated[p] = true
			sources = append(sources, p)
		}
	}

	for _, p := range sources {
		b.Add(ReassignRanks(without(s.PartitionItems(p), seen))...)
	}

	return b, nil
}

// BulkDelete deletes the given items. Survivors keep their ranks; the gaps are
// closed the next time their partition is re-ranked.
func BulkDelete(s *Snapshot, ids []uuid.UUID) *Batch {
	b := NewBatch()
	for _, id := range ids {
		if s.Item(id) != nil {
			b.Add(DeleteItem(id))
		}
	}
	return b
}

// DeleteAllWatched deletes every watched item
func DeleteAllWatched(s *Snapshot) *Batch {
	b := NewBatch()
	for _, item := range s.Items {
		if item.Watched {
			b.Add(DeleteItem(item.ID))
		}
	}
	return b
}

// DeleteFolders deletes folders without deleting their items. Contained items
// become standalone and are appended, in their current rank order, to the
// standalone partition matching their watched state and type.
func DeleteFolders(s *Snapshot, folderIDs []uuid.UUID) *Batch {
	b := NewBatch()
	next := make(map[Partition]int)

	for _, folderID := range folderIDs {
		if s.Folder(folderID) == nil {
			continue
		}

		contained := s.FolderItems(folderID)
		sort.SliceStable(contained, func(i, j int) bool {
			pi, pj := PartitionOf(contained[i]).String(), PartitionOf(contained[j]).String()
			if pi != pj {
				return pi < pj
			}
			return contained[i].Order < contained[j].Order
		})

		for _, item := range contained {
			dest := PartitionOf(item).WithFolder(nil)
			if _, ok := next[dest]; !ok {
				next[dest] = NextOrder(s, dest)
			}
			b.Add(UpdateItem(item.ID, ItemChanges{
				FolderID: Some[*uuid.UUID](nil),
				Order:    Some(next[dest]),
			}))
			next[dest]++
		}

		b.Add(DeleteFolder(folderID))
	}

	return b
}

// checkFolderPurity rejects placing unwatched items of itemType into a folder
// that already holds unwatched items of another type. Standalone is always pure.
func checkFolderPurity(s *Snapshot, folderID *uuid.UUID, itemType models.MediaType, ignore map[uuid.UUID]bool) error {
	if folderID == nil {
		return nil
	}
	for _, item := range s.FolderItems(*folderID) {
		if ignore[item.ID] || item.Watched {
			continue
		}
		if item.Type != itemType {
			return ErrFolderTypeMismatch
		}
	}
	return nil
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
