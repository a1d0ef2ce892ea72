package models

import (
	"fmt"
	"strings"
)

// MediaType identifies what kind of title a watchlist item tracks
type MediaType string

// Media type constants
const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// IsValid reports whether the media type is one of the known values
func (t MediaType) IsValid() bool {
	return t == MediaTypeMovie || t == MediaTypeSeries
}

// String returns the string form of the media type
func (t MediaType) String() string {
	return string(t)
}

// ParseMediaType converts user input ("movie", "Series", " movie ") into a MediaType
func ParseMediaType(s string) (MediaType, error) {
	t := MediaType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown media type %q (must be movie or series)", s)
	}
	return t, nil
}
