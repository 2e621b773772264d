package enums

import "fmt"

// SortMode enumerates the ranking orders accepted by the discovery surface.
// The value chooses a whole ORDER BY strategy from a closed set; user input
// never reaches SQL as text.
type SortMode string

const (
	SortModeRelevance SortMode = "relevance"
	SortModeRating    SortMode = "rating"
	SortModeDistance  SortMode = "distance"
	SortModeName      SortMode = "name"
	SortModeOrders    SortMode = "orders"
)

var validSortModes = []SortMode{
	SortModeRelevance,
	SortModeRating,
	SortModeDistance,
	SortModeName,
	SortModeOrders,
}

// String implements fmt.Stringer.
func (s SortMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortMode.
func (s SortMode) IsValid() bool {
	for _, candidate := range validSortModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortMode converts raw input into a SortMode.
func ParseSortMode(value string) (SortMode, error) {
	for _, candidate := range validSortModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort mode %q", value)
}

// SortModeOrDefault parses tolerantly: unknown or empty input falls back to
// relevance, matching the discovery surface's never-4xx contract.
func SortModeOrDefault(value string) SortMode {
	mode, err := ParseSortMode(value)
	if err != nil {
		return SortModeRelevance
	}
	return mode
}
