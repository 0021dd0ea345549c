package services

import (
	"database/sql"

	"github.com/inkstream/inkstream-be/internal/models"
)

// FeedServiceProvider defines the interface for feed composition. One
// method per feed kind; there is no open-ended dispatch.
type FeedServiceProvider interface {
	Global(page int) (models.Page, error)
	Group(slug string, page int) (models.Group, models.Page, error)
	Profile(viewer models.Viewer, username string, page int) (models.Profile, models.Page, error)
	Following(viewer models.Viewer, page int) (models.Page, error)
}

// FeedService composes the ordered, paginated post feeds a viewer sees.
type FeedService struct {
	db      *sql.DB
	users   UserServiceProvider
	groups  GroupServiceProvider
	follows FollowServiceProvider
}

// NewFeedService creates a new FeedService.
func NewFeedService(db *sql.DB, users UserServiceProvider, groups GroupServiceProvider, follows FollowServiceProvider) *FeedService {
	return &FeedService{db: db, users: users, groups: groups, follows: follows}
}

// Every feed is newest-first; equal timestamps fall back to descending id
// so the order is deterministic.
const (
	postSelect = `SELECT p.id, p.text, p.author_id, u.username, p.group_id, g.slug, p.image, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN post_groups g ON g.id = p.group_id`
	postOrder = ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
)

// Global returns the feed of all posts. It is viewer-independent.
func (s *FeedService) Global(page int) (models.Page, error) {
	return s.pageOf("SELECT COUNT(1) FROM posts", postSelect+postOrder, page)
}

// Group returns the feed of posts in the group named by slug, or
// ErrNotFound when the slug does not resolve. An existing group with no
// posts yields an empty page, not an error.
func (s *FeedService) Group(slug string, page int) (models.Group, models.Page, error) {
	group, err := s.groups.GetGroupBySlug(slug)
	if err != nil {
		return models.Group{}, models.Page{}, err
	}
	p, err := s.pageOf(
		"SELECT COUNT(1) FROM posts WHERE group_id = ?",
		postSelect+" WHERE p.group_id = ?"+postOrder,
		page, group.ID,
	)
	return group, p, err
}

// Profile returns the feed of posts by the named author together with the
// author's counts and, for an authenticated viewer, whether the viewer
// follows them.
func (s *FeedService) Profile(viewer models.Viewer, username string, page int) (models.Profile, models.Page, error) {
	author, err := s.users.GetUserByUsername(username)
	if err != nil {
		return models.Profile{}, models.Page{}, err
	}

	p, err := s.pageOf(
		"SELECT COUNT(1) FROM posts WHERE author_id = ?",
		postSelect+" WHERE p.author_id = ?"+postOrder,
		page, author.ID,
	)
	if err != nil {
		return models.Profile{}, models.Page{}, err
	}

	profile := models.Profile{Author: author, PostCount: p.TotalCount}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM follows WHERE author_id = ?", author.ID).Scan(&profile.FollowerCount); err != nil {
		return models.Profile{}, models.Page{}, err
	}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM follows WHERE user_id = ?", author.ID).Scan(&profile.FollowingCount); err != nil {
		return models.Profile{}, models.Page{}, err
	}
	if viewer.Authenticated() {
		following, err := s.follows.IsFollowing(viewer.ID, author.ID)
		if err != nil {
			return models.Profile{}, models.Page{}, err
		}
		profile.ViewerFollows = following
	}
	return profile, p, nil
}

// Following returns the merged feed of posts by every author the viewer
// follows, interleaved by timestamp rather than grouped by author. It
// requires an authenticated viewer.
func (s *FeedService) Following(viewer models.Viewer, page int) (models.Page, error) {
	if !viewer.Authenticated() {
		return models.Page{}, ErrAuthRequired
	}
	return s.pageOf(
		"SELECT COUNT(1) FROM posts WHERE author_id IN (SELECT author_id FROM follows WHERE user_id = ?)",
		postSelect+" WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)"+postOrder,
		page, viewer.ID,
	)
}

// pageOf runs the count and page queries that every feed kind shares.
// countQuery and pageQuery take the same filter arguments; pageQuery
// additionally receives LIMIT and OFFSET. Pages beyond the end come back
// empty, never as an error.
func (s *FeedService) pageOf(countQuery, pageQuery string, page int, args ...interface{}) (models.Page, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return models.Page{}, err
	}

	offset := (page - 1) * models.FeedPageSize
	queryArgs := append(append([]interface{}{}, args...), models.FeedPageSize, offset)
	rows, err := s.db.Query(pageQuery, queryArgs...)
	if err != nil {
		return models.Page{}, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return models.Page{}, err
	}
	return models.NewPage(posts, page, total), nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Text, &p.AuthorID, &p.AuthorUsername, &p.GroupID, &p.GroupSlug, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
