package services

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/inkstream/inkstream-be/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// GroupServiceProvider defines the interface for group services.
type GroupServiceProvider interface {
	CreateGroup(title, slug, description string) (models.Group, error)
	GetGroupBySlug(slug string) (models.Group, error)
	ListGroups() ([]models.Group, error)
	DeleteGroup(id int64) error
}

// GroupService provides business logic for post groups.
type GroupService struct {
	db *sql.DB
}

// NewGroupService creates a new GroupService.
func NewGroupService(db *sql.DB) *GroupService {
	return &GroupService{db: db}
}

// CreateGroup creates a new group with a unique slug.
func (s *GroupService) CreateGroup(title, slug, description string) (models.Group, error) {
	if strings.TrimSpace(title) == "" {
		return models.Group{}, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if !slugPattern.MatchString(slug) {
		return models.Group{}, &ValidationError{Field: "slug", Message: "use only lowercase letters, digits, hyphens and underscores"}
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM post_groups WHERE slug = ?", slug).Scan(&exists); err != nil {
		return models.Group{}, err
	}
	if exists > 0 {
		return models.Group{}, &ValidationError{Field: "slug", Message: "already taken"}
	}

	res, err := s.db.Exec(
		"INSERT INTO post_groups(title, slug, description) VALUES(?, ?, ?)",
		title, slug, description,
	)
	if err != nil {
		return models.Group{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Group{}, err
	}
	return models.Group{ID: id, Title: title, Slug: slug, Description: description}, nil
}

// GetGroupBySlug resolves a slug to its group.
func (s *GroupService) GetGroupBySlug(slug string) (models.Group, error) {
	var g models.Group
	row := s.db.QueryRow("SELECT id, title, slug, description FROM post_groups WHERE slug = ?", slug)
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// ListGroups returns all groups ordered by title.
func (s *GroupService) ListGroups() ([]models.Group, error) {
	rows, err := s.db.Query("SELECT id, title, slug, description FROM post_groups ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteGroup removes a group. The store sets the group reference of the
// group's posts to NULL; posts themselves survive.
func (s *GroupService) DeleteGroup(id int64) error {
	_, err := s.db.Exec("DELETE FROM post_groups WHERE id = ?", id)
	return err
}
