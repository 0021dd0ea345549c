package models

// Group is a named collection a post may optionally belong to.
// Deleting a group detaches its posts, it never deletes them.
type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}
