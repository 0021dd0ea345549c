package services

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/inkstream/inkstream-be/internal/cache"
	"github.com/inkstream/inkstream-be/internal/media"
	"github.com/inkstream/inkstream-be/internal/models"
)

// ImageStore is the slice of the media collaborator the post service needs.
type ImageStore interface {
	Save(r io.Reader) (string, error)
}

// PostServiceProvider defines the interface for post and comment services.
type PostServiceProvider interface {
	CreatePost(viewer models.Viewer, text string, groupID *int64, image io.Reader) (models.Post, error)
	GetPost(id int64) (models.Post, []models.Comment, error)
	EditPost(viewer models.Viewer, id int64, text string, groupID *int64, image io.Reader) (models.Post, error)
	DeletePost(viewer models.Viewer, id int64) error
	CreateComment(viewer models.Viewer, postID int64, text string) (models.Comment, error)
}

// PostService provides the post and comment lifecycle. Every mutation goes
// through the guard first and invalidates the global feed cache after.
type PostService struct {
	db        *sql.DB
	guard     Guard
	images    ImageStore
	feedCache cache.FeedCache
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, guard Guard, images ImageStore, feedCache cache.FeedCache) *PostService {
	return &PostService{db: db, guard: guard, images: images, feedCache: feedCache}
}

// CreatePost stores a new post authored by the viewer. text must be
// non-empty; groupID, when given, must resolve; image, when given, must be
// a decodable raster image. The author and the creation timestamp are set
// here and never change afterwards.
func (s *PostService) CreatePost(viewer models.Viewer, text string, groupID *int64, image io.Reader) (models.Post, error) {
	if err := s.guard.Authorize(viewer, ActionCreatePost, ""); err != nil {
		return models.Post{}, err
	}
	if strings.TrimSpace(text) == "" {
		return models.Post{}, &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if groupID != nil {
		if err := s.checkGroupExists(*groupID); err != nil {
			return models.Post{}, err
		}
	}

	var imageName *string
	if image != nil {
		name, err := s.saveImage(image)
		if err != nil {
			return models.Post{}, err
		}
		imageName = &name
	}

	res, err := s.db.Exec(
		"INSERT INTO posts(text, author_id, group_id, image, created_at) VALUES(?, ?, ?, ?, ?)",
		text, viewer.ID, groupID, imageName, time.Now().UTC(),
	)
	if err != nil {
		return models.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}

	s.feedCache.Invalidate()

	post, _, err := s.GetPost(id)
	return post, err
}

// GetPost returns one post together with its comments, newest first.
func (s *PostService) GetPost(id int64) (models.Post, []models.Comment, error) {
	var p models.Post
	row := s.db.QueryRow(postSelect+" WHERE p.id = ?", id)
	err := row.Scan(&p.ID, &p.Text, &p.AuthorID, &p.AuthorUsername, &p.GroupID, &p.GroupSlug, &p.Image, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, nil, ErrNotFound
		}
		return models.Post{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ? ORDER BY c.created_at DESC, c.id DESC`, id)
	if err != nil {
		return models.Post{}, nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Text, &c.CreatedAt); err != nil {
			return models.Post{}, nil, err
		}
		comments = append(comments, c)
	}
	return p, comments, rows.Err()
}

// EditPost updates a post's text, group and image. Only the author may
// edit; author and creation timestamp stay as they were. A nil image
// reader leaves the current image in place.
func (s *PostService) EditPost(viewer models.Viewer, id int64, text string, groupID *int64, image io.Reader) (models.Post, error) {
	post, _, err := s.GetPost(id)
	if err != nil {
		return models.Post{}, err
	}
	if err := s.guard.Authorize(viewer, ActionEditPost, post.AuthorID); err != nil {
		return models.Post{}, err
	}
	if strings.TrimSpace(text) == "" {
		return models.Post{}, &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if groupID != nil {
		if err := s.checkGroupExists(*groupID); err != nil {
			return models.Post{}, err
		}
	}

	imageName := post.Image
	if image != nil {
		name, err := s.saveImage(image)
		if err != nil {
			return models.Post{}, err
		}
		imageName = &name
	}

	_, err = s.db.Exec(
		"UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?",
		text, groupID, imageName, id,
	)
	if err != nil {
		return models.Post{}, err
	}

	s.feedCache.Invalidate()

	post, _, err = s.GetPost(id)
	return post, err
}

// DeletePost removes a post and, through the store's cascade, its
// comments. Only the author may delete.
func (s *PostService) DeletePost(viewer models.Viewer, id int64) error {
	post, _, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(viewer, ActionDeletePost, post.AuthorID); err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id); err != nil {
		return err
	}
	s.feedCache.Invalidate()
	return nil
}

// CreateComment attaches a comment by the viewer to an existing post.
func (s *PostService) CreateComment(viewer models.Viewer, postID int64, text string) (models.Comment, error) {
	if err := s.guard.Authorize(viewer, ActionCreateComment, ""); err != nil {
		return models.Comment{}, err
	}
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if _, _, err := s.GetPost(postID); err != nil {
		return models.Comment{}, err
	}

	res, err := s.db.Exec(
		"INSERT INTO comments(post_id, author_id, text, created_at) VALUES(?, ?, ?, ?)",
		postID, viewer.ID, text, time.Now().UTC(),
	)
	if err != nil {
		return models.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, err
	}

	s.feedCache.Invalidate()

	var c models.Comment
	row := s.db.QueryRow(
		`SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = ?`, id)
	err = row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Text, &c.CreatedAt)
	return c, err
}

func (s *PostService) checkGroupExists(groupID int64) error {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM post_groups WHERE id = ?", groupID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return &ValidationError{Field: "group", Message: "unknown group"}
	}
	return nil
}

func (s *PostService) saveImage(image io.Reader) (string, error) {
	name, err := s.images.Save(image)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return "", &ValidationError{Field: "image", Message: "upload a valid image file"}
		}
		return "", err
	}
	return name, nil
}
