package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Rating bounds
const (
	MinRating = 0
	MaxRating = 10
)

// Rating is a tri-state score: never written (unset), explicitly cleared (null),
// or a value in [MinRating, MaxRating].
//
// It is stored as two columns (rating_set, rating_value) so the three states
// survive a round trip through the database. The zero value is unset.
type Rating struct {
	Set   bool     `gorm:"type:integer;not null;default:0;column:set"`
	Value *float64 `gorm:"type:real;column:value"`
}

// RatingUnset returns a rating that was never written
func RatingUnset() Rating {
	return Rating{}
}

// RatingNull returns an explicitly cleared rating
func RatingNull() Rating {
	return Rating{Set: true}
}

// RatingOf returns a rating holding v
func RatingOf(v float64) Rating {
	return Rating{Set: true, Value: &v}
}

// IsUnset reports whether the rating was never written
func (r Rating) IsUnset() bool {
	return !r.Set
}

// IsNull reports whether the rating was explicitly cleared
func (r Rating) IsNull() bool {
	return r.Set && r.Value == nil
}

// HasValue reports whether the rating holds a score
func (r Rating) HasValue() bool {
	return r.Set && r.Value != nil
}

// Float returns the score, or 0 when there is none
func (r Rating) Float() float64 {
	if !r.HasValue() {
		return 0
	}
	return *r.Value
}

// Validate checks the score is within bounds
func (r Rating) Validate() error {
	if !r.HasValue() {
		return nil
	}
	if *r.Value < MinRating || *r.Value > MaxRating {
		return fmt.Errorf("rating %.1f out of range [%d, %d]", *r.Value, MinRating, MaxRating)
	}
	return nil
}

// Equal compares two ratings by state and value
func (r Rating) Equal(other Rating) bool {
	if r.Set != other.Set {
		return false
	}
	if r.HasValue() != other.HasValue() {
		return false
	}
	return r.Float() == other.Float()
}

// String renders the rating for logs and CLI output
func (r Rating) String() string {
	switch {
	case r.IsUnset():
		return "unset"
	case r.IsNull():
		return "null"
	default:
		return fmt.Sprintf("%g", *r.Value)
	}
}

// IsZero lets `omitzero` drop unset ratings from JSON output
func (r Rating) IsZero() bool {
	return r.IsUnset()
}

// MarshalJSON encodes null for a cleared rating and a number otherwise.
// Unset ratings are expected to be omitted by the enclosing struct.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(*r.Value)
}

// UnmarshalJSON decodes null as a cleared rating and a number as a value.
// An absent field never reaches this method and stays unset.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = RatingNull()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid rating: %w", err)
	}
	*r = RatingOf(v)
	return nil
}
