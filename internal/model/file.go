package model

import "time"

// File is the metadata record for a stored object. The row is the
// authoritative source for authorization; the object in the bucket is inert
// data referenced by BucketKey. Row and object are created and destroyed
// together on a best-effort basis (no cross-resource transaction exists).
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension"`
	Type       FileType  `json:"type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	OwnerID    string    `json:"owner_id"`
	SharedWith []string  `json:"shared_with"`
	BucketKey  string    `json:"bucket_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SharedWithContains reports whether the given email is on the share list.
func (f *File) SharedWithContains(email string) bool {
	for _, e := range f.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}
