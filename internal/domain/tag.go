package domain

import "time"

// Tag holds the canonical (trimmed, lowercased) name. The name is globally
// unique in canonical form.
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// TagCount is a tag annotated with how many todos reference it.
type TagCount struct {
	ID    string
	Name  string
	Count int64
}
