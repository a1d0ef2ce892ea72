package watchlist

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinFuzzyKeyLength is the shortest normalized title fuzzy matching considers.
// Shorter keys are only grouped on an exact match.
const MinFuzzyKeyLength = 5

var (
	bracketedPart   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
	trailingArticle = regexp.MustCompile(`,\s*(the|a|an)$`)
	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

var leadingArticles = map[string]bool{"the": true, "a": true, "an": true}

// foldDiacritics strips combining marks so "Amélie" and "Amelie" compare equal
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeTitle reduces a title to the key duplicates are grouped by.
// "The Matrix", "Matrix, The" and "matrix (1999)" all normalize to "matrix".
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = foldDiacritics(s)
	s = bracketedPart.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = trailingArticle.ReplaceAllString(strings.TrimSpace(s), "")
	s = nonAlphanumeric.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	if len(words) > 1 && leadingArticles[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// DuplicateOptions tunes FindDuplicates
type DuplicateOptions struct {
	// MaxDistance merges groups whose normalized titles are within this
	// Levenshtein distance. Zero groups exact matches only.
	MaxDistance int
}

// Group is a set of items sharing a normalized title. Items are sorted so the
// one most worth keeping comes first.
type Group struct {
	Title      string         `json:"title"`
	Normalized string         `json:"normalized"`
	Items      []*models.Item `json:"items"`
}

// Keeper returns the item the group suggests keeping
func (g Group) Keeper() *models.Item {
	if len(g.Items) == 0 {
		return nil
	}
	return g.Items[0]
}

// Deletable returns the ids suggested for deletion: every item but the keeper.
// Nothing is deleted automatically.
func (g Group) Deletable() []uuid.UUID {
	if len(g.Items) < 2 {
		return nil
	}
	return itemIDs(g.Items[1:])
}

// FindDuplicates groups items across every partition by normalized title and
// returns the groups of two or more, sorted by normalized title. Titles that
// normalize to nothing are ignored.
func FindDuplicates(items []*models.Item, opts DuplicateOptions) []Group {
	byKey := make(map[string][]*models.Item)
	for _, item := range items {
		key := NormalizeTitle(item.Title)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], item)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if opts.MaxDistance > 0 {
		keys, byKey = mergeSimilarKeys(keys, byKey, opts.MaxDistance)
	}

	var groups []Group
	for _, key := range keys {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}
		sortKeeperFirst(members)
		groups = append(groups, Group{
			Title:      members[0].Title,
			Normalized: key,
			Items:      members,
		})
	}
	return groups
}

// mergeSimilarKeys folds each key into the first earlier key within distance.
// keys must be sorted; the merged set keeps the earliest key.
func mergeSimilarKeys(keys []string, byKey map[string][]*models.Item, distance int) ([]string, map[string][]*models.Item) {
	merged := make(map[string][]*models.Item, len(byKey))
	var roots []string

	for _, key := range keys {
		target := ""
		if utf8.RuneCountInString(key) >= MinFuzzyKeyLength {
			for _, root := range roots {
				if utf8.RuneCountInString(root) < MinFuzzyKeyLength {
					continue
				}
				if levenshtein.ComputeDistance(root, key) <= distance {
					target = root
					break
				}
			}
		}
		if target == "" {
			roots = append(roots, key)
			target = key
		}
		merged[target] = append(merged[target], byKey[key]...)
	}
	return roots, merged
}

// sortKeeperFirst orders a group: watched items first, then higher rating, then
// more metadata, then the oldest
func sortKeeperFirst(items []*models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Watched != b.Watched {
			return a.Watched
		}
		if ra, rb := a.Rating.Float(), b.Rating.Float(); ra != rb {
			return ra > rb
		}
		if ma, mb := metadataScore(a), metadataScore(b); ma != mb {
			return ma > mb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

func metadataScore(item *models.Item) int {
	score := 0
	if item.Notes != nil && strings.TrimSpace(*item.Notes) != "" {
		score++
	}
	if item.Rating.HasValue() {
		score++
	}
	if item.Season != nil {
		score++
	}
	if item.Episode != nil {
		score++
	}
	if item.FolderID != nil {
		score++
	}
	return score
}
