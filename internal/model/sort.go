package model

import "strings"

// Sort is a whitelisted (field, direction) pair for file listings. The zero
// value is not valid; use DefaultSort or ParseSort.
type Sort struct {
	Field     string
	Ascending bool
}

// DefaultSort orders newest first, matching the dashboard's default view.
func DefaultSort() Sort {
	return Sort{Field: "created_at", Ascending: false}
}

var sortFields = map[string]string{
	"name":       "name",
	"size":       "size",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ParseSort parses a "field-direction" pair such as "name-asc" or
// "size-desc". Unknown fields or directions fall back to DefaultSort. Only
// whitelisted fields are ever returned, so Sort.Field is safe to interpolate
// into an ORDER BY clause.
func ParseSort(s string) Sort {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSort()
	}
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return DefaultSort()
	}
	field, ok := sortFields[s[:i]]
	if !ok {
		return DefaultSort()
	}
	switch s[i+1:] {
	case "asc":
		return Sort{Field: field, Ascending: true}
	case "desc":
		return Sort{Field: field, Ascending: false}
	}
	return DefaultSort()
}
