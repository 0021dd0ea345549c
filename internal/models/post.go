package models

import "time"

// Post is an authored entry. Author and CreatedAt are set at creation and
// never change; text, group and image are mutable by the author only.
type Post struct {
	ID             int64     `json:"id"`
	Text           string    `json:"text"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	GroupID        *int64    `json:"groupId,omitempty"`
	GroupSlug      *string   `json:"groupSlug,omitempty"`
	Image          *string   `json:"image,omitempty"` // stored media filename
	CreatedAt      time.Time `json:"createdAt"`
}
