package models

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 10

// Page is one bounded slice of a feed plus the metadata needed to walk
// page boundaries.
type Page struct {
	Items      []Post `json:"items"`
	Number     int    `json:"number"` // 1-based
	Size       int    `json:"size"`
	TotalCount int    `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
}

// NewPage slices nothing itself; it just fills the derived metadata for a
// page that was already limited by the query. A page past the end carries an
// empty item list, never an error.
func NewPage(items []Post, number, totalCount int) Page {
	totalPages := (totalCount + FeedPageSize - 1) / FeedPageSize
	if items == nil {
		items = []Post{}
	}
	return Page{
		Items:      items,
		Number:     number,
		Size:       FeedPageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// Profile is the context a profile feed returns alongside its page.
type Profile struct {
	Author         User `json:"author"`
	PostCount      int  `json:"postCount"`
	FollowerCount  int  `json:"followerCount"`
	FollowingCount int  `json:"followingCount"`
	ViewerFollows  bool `json:"viewerFollows"`
}
