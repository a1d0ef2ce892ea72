package watchlist

import (
	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// Direction is a single-step reorder direction
type Direction string

// Directions
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ReassignRanks takes a list already in its desired final order and returns one
// order update per item whose rank is not its 1-based position. Running it on
// an already dense list returns nothing.
func ReassignRanks(ordered []*models.Item) []Mutation {
	var muts []Mutation
	for i, item := range ordered {
		want := i + 1
		if item.Order != want {
			muts = append(muts, UpdateItem(item.ID, ItemChanges{Order: Some(want)}))
		}
	}
	return muts
}

// MaxOrder returns the highest rank among items, 0 when empty
func MaxOrder(items []*models.Item) int {
	highest := 0
	for _, item := range items {
		if item.Order > highest {
			highest = item.Order
		}
	}
	return highest
}

// NextOrder returns the rank a new member appended to p receives
func NextOrder(s *Snapshot, p Partition) int {
	return MaxOrder(s.PartitionItems(p)) + 1
}

// MoveStep moves an item one slot up or down within its partition. Unknown
// items and moves past either end plan nothing.
func MoveStep(s *Snapshot, itemID uuid.UUID, dir Direction) *Batch {
	item := s.Item(itemID)
	if item == nil {
		return NewBatch()
	}

	list := s.PartitionItems(PartitionOf(item))
	current := indexOf(list, itemID)
	if current < 0 {
		return NewBatch()
	}

	target := current - 1
	if dir == Down {
		target = current + 1
	}
	if target < 0 || target >= len(list) {
		return NewBatch()
	}

	return NewBatch(ReassignRanks(splice(list, current, target))...)
}

// DragReorder moves the dragged item to the position of the drop target. Both
// must share a partition; cross-partition drops belong to the mover.
func DragReorder(s *Snapshot, draggedID, targetID uuid.UUID) (*Batch, error) {
	dragged := s.Item(draggedID)
	target := s.Item(targetID)
	if dragged == nil || target == nil || draggedID == targetID {
		return NewBatch(), nil
	}

	p := PartitionOf(dragged)
	if !p.Contains(target) {
		return nil, ErrCrossPartition
	}

	list := s.PartitionItems(p)
	from := indexOf(list, draggedID)
	to := indexOf(list, targetID)
	return NewBatch(ReassignRanks(splice(list, from, to))...), nil
}

// Densify re-ranks every partition of the snapshot, closing gaps left by
// deletes and collisions left by concurrent writers
func Densify(s *Snapshot) *Batch {
	b := NewBatch()
	for _, p := range s.Partitions() {
		b.Add(ReassignRanks(s.PartitionItems(p))...)
	}
	return b
}

// IsDense reports whether every partition ranks exactly 1..N
func IsDense(s *Snapshot) bool {
	for _, p := range s.Partitions() {
		for i, item := range s.PartitionItems(p) {
			if item.Order != i+1 {
				return false
			}
		}
	}
	return true
}

func indexOf(items []*models.Item, id uuid.UUID) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// splice returns a copy of list with the element at from moved to index to
func splice(list []*models.Item, from, to int) []*models.Item {
	out := make([]*models.Item, 0, len(list))
	moved := list[from]
	for i, item := range list {
		if i != from {
			out = append(out, item)
		}
	}
	out = append(out, nil)
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// without returns items minus the ids in skip
func without(items []*models.Item, skip map[uuid.UUID]bool) []*models.Item {
	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if !skip[item.ID] {
			out = append(out, item)
		}
	}
	return out
}
