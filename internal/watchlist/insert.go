package watchlist

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
)

// NewItem carries the user-supplied fields of an Add
type NewItem struct {
	Title   string
	Type    models.MediaType
	Watched bool
	IsD21   bool
	Notes   *string
	Rating  models.Rating
	Season  *int
	Episode *int
}

// QuickAddEntry is one title of a Quick Add batch
type QuickAddEntry struct {
	Title string
	Type  models.MediaType
}

// ItemEdit lists the user-editable fields an edit writes
type ItemEdit struct {
	Title   Optional[string]
	Type    Optional[models.MediaType]
	IsD21   Optional[bool]
	Notes   Optional[*string]
	Rating  Optional[models.Rating]
	Season  Optional[*int]
	Episode Optional[*int]
}

// ValidateItemFields checks the user-editable fields of an item
func ValidateItemFields(title string, t models.MediaType, watched bool, rating models.Rating, season, episode *int) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if !t.IsValid() {
		return ErrInvalidType
	}
	if rating.HasValue() {
		if !watched {
			return ErrRatingRequiresWatched
		}
		if rating.Validate() != nil {
			return ErrInvalidRating
		}
	}
	if season != nil || episode != nil {
		if t != models.MediaTypeSeries {
			return ErrEpisodeRequiresSeries
		}
		if (season != nil && *season < 1) || (episode != nil && *episode < 1) {
			return ErrInvalidEpisode
		}
	}
	return nil
}

// PlanAdd plans inserting one item, appended to its standalone partition.
// Existing members are never renumbered.
func PlanAdd(s *Snapshot, userID string, in NewItem, now time.Time) (*models.Item, *Batch, error) {
	if err := ValidateItemFields(in.Title, in.Type, in.Watched, in.Rating, in.Season, in.Episode); err != nil {
		return nil, nil, err
	}

	now = now.UTC()
	item := &models.Item{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(in.Title),
		Type:      in.Type,
		Watched:   in.Watched,
		CreatedAt: now,
		IsD21:     in.IsD21,
		Notes:     in.Notes,
		Season:    in.Season,
		Episode:   in.Episode,
	}
	if in.Watched {
		item.WatchedAt = &now
		item.Rating = in.Rating
		if item.Rating.IsUnset() {
			item.Rating = models.RatingNull()
		}
	}
	item.Order = NextOrder(s, PartitionOf(item))

	return item, NewBatch(SetItem(item)), nil
}

// PlanQuickAdd plans inserting a list of titles straight into the watched
// list, standalone or inside folderID. Blank titles are skipped; ErrNoItems is
// returned when none remain.
func PlanQuickAdd(s *Snapshot, userID string, entries []QuickAddEntry, folderID *uuid.UUID, now time.Time) ([]*models.Item, *Batch, error) {
	if !s.HasFolder(folderID) {
		return nil, nil, ErrFolderNotFound
	}
	now = now.UTC()
	next := NextOrder(s, WatchedPartition(folderID))

	var added []*models.Item
	b := NewBatch()
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		if !entry.Type.IsValid() {
			return nil, nil, ErrInvalidType
		}
		at := now
		empty := ""
		item := &models.Item{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     title,
			Type:      entry.Type,
			Watched:   true,
			WatchedAt: &at,
			CreatedAt: now,
			Order:     next,
			FolderID:  cloneID(folderID),
			Notes:     &empty,
			Rating:    models.RatingNull(),
		}
		next++
		added = append(added, item)
		b.Add(SetItem(item))
	}

	if len(added) == 0 {
		return nil, nil, ErrNoItems
	}
	return added, b, nil
}

// PlanImport plans inserting watched items restored from a backup. Drafts whose
// normalized title matches a current watched item, or an earlier draft, are
// skipped. Every draft gets a fresh id and is appended to its partition;
// folder references that no longer exist fall back to standalone.
func PlanImport(s *Snapshot, userID string, drafts []*models.Item, now time.Time) ([]*models.Item, int, *Batch) {
	now = now.UTC()
	known := make(map[string]bool)
	for _, item := range s.Items {
		if item.Watched {
			known[NormalizeTitle(item.Title)] = true
		}
	}

	next := make(map[Partition]int)
	var added []*models.Item
	skipped := 0
	b := NewBatch()

	for _, draft := range drafts {
		title := strings.TrimSpace(draft.Title)
		key := NormalizeTitle(title)
		if title == "" || key == "" || known[key] {
			skipped++
			continue
		}
		known[key] = true

		item := draft.Clone()
		item.ID = uuid.New()
		item.UserID = userID
		item.Title = title
		item.Watched = true
		if !item.Type.IsValid() {
			item.Type = models.MediaTypeMovie
		}
		if item.Type != models.MediaTypeSeries {
			item.Season, item.Episode = nil, nil
		}
		if item.WatchedAt == nil {
			at := now
			item.WatchedAt = &at
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if item.Rating.IsUnset() || item.Rating.Validate() != nil {
			item.Rating = models.RatingNull()
		}
		if !s.HasFolder(item.FolderID) {
			item.FolderID = nil
		}

		p := PartitionOf(item)
		if _, ok := next[p]; !ok {
			next[p] = NextOrder(s, p)
		}
		item.Order = next[p]
		next[p]++

		added = append(added, item)
		b.Add(SetItem(item))
	}

	return added, skipped, b
}

// PlanEdit plans an edit of the user-editable fields.
//
// Changing the type of an unwatched item moves it to another partition: it is
// detached to standalone, appended to the new type's standalone partition and
// its old partition is re-ranked. Turning a series into a movie drops its
// season and episode.
func PlanEdit(s *Snapshot, itemID uuid.UUID, edit ItemEdit) (*Batch, error) {
	item := s.Item(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	title, t, rating := item.Title, item.Type, item.Rating
	season, episode := item.Season, item.Episode
	if edit.Title.Set {
		title = strings.TrimSpace(edit.Title.Value)
	}
	if edit.Type.Set {
		t = edit.Type.Value
		if t == models.MediaTypeMovie && !edit.Season.Set && !edit.Episode.Set {
			season, episode = nil, nil
		}
	}
	if edit.Rating.Set {
		// unwatched items carry no rating field, not even an explicit null
		if !item.Watched && !edit.Rating.Value.IsUnset() {
			return nil, ErrRatingRequiresWatched
		}
		rating = edit.Rating.Value
	}
	if edit.Season.Set {
		season = edit.Season.Value
	}
	if edit.Episode.Set {
		episode = edit.Episode.Value
	}
	if err := ValidateItemFields(title, t, item.Watched, rating, season, episode); err != nil {
		return nil, err
	}

	changes := ItemChanges{
		IsD21: edit.IsD21,
		Notes: edit.Notes,
	}
	if title != item.Title {
		changes.Title = Some(title)
	}
	if edit.Rating.Set && !rating.Equal(item.Rating) {
		changes.Rating = Some(rating)
	}
	if !equalIntPtr(season, item.Season) {
		changes.Season = Some(season)
	}
	if !equalIntPtr(episode, item.Episode) {
		changes.Episode = Some(episode)
	}

	b := NewBatch()
	if t != item.Type {
		changes.Type = Some(t)
		if !item.Watched {
			changes.FolderID = Some[*uuid.UUID](nil)
			changes.Order = Some(NextOrder(s, UnwatchedPartition(t, nil)))
			source := s.PartitionItems(PartitionOf(item))
			b.Add(ReassignRanks(without(source, map[uuid.UUID]bool{itemID: true}))...)
		}
	}

	if changes != (ItemChanges{}) {
		b.Add(UpdateItem(itemID, changes))
	}
	return b, nil
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
