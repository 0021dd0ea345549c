package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/render"
	"github.com/inkstream/inkstream-be/internal/services"
)

const maxUploadBytes = 10 << 20

// PostHandler handles the post and comment lifecycle endpoints.
type PostHandler struct {
	service  services.PostServiceProvider
	renderer render.Renderer
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider, renderer render.Renderer) *PostHandler {
	return &PostHandler{service: service, renderer: renderer}
}

// Create handles new post submission: multipart form with "text", an
// optional "group" id and an optional "image" upload.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	text, groupID, image, cleanup, err := parsePostForm(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer cleanup()

	post, err := h.service.CreatePost(viewer, text, groupID, image)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Get serves the read-only view of one post with its comments.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	post, comments, err := h.service.GetPost(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := h.renderer.Render(render.TemplatePost, render.Context{
		"post":     post,
		"comments": comments,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeRendered(w, body)
}

// Update handles editing a post. A viewer who is not the author is sent
// to the post's read-only view instead of getting an error.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	text, groupID, image, cleanup, err := parsePostForm(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer cleanup()

	post, err := h.service.EditPost(viewer, id, text, groupID, image)
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			redirectToPost(w, r, id)
			return
		}
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post, with the same non-owner redirect as
// Update.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if err := h.service.DeletePost(viewer, id); err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			redirectToPost(w, r, id)
			return
		}
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateComment handles attaching a comment to a post.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	id, err := postID(r)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.service.CreateComment(viewer, id, r.PostFormValue("text"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func redirectToPost(w http.ResponseWriter, r *http.Request, id int64) {
	http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusFound)
}

// parsePostForm extracts the shared post form fields. The returned
// cleanup closes the upload; image is nil when no file was sent.
func parsePostForm(r *http.Request) (text string, groupID *int64, image io.Reader, cleanup func(), err error) {
	cleanup = func() {}
	if err = r.ParseMultipartForm(maxUploadBytes); err != nil {
		// Fall back to a plain form body without an upload.
		if err = r.ParseForm(); err != nil {
			return
		}
	}

	text = r.PostFormValue("text")
	if raw := r.PostFormValue("group"); raw != "" {
		var id int64
		if id, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return
		}
		groupID = &id
	}

	if file, _, ferr := r.FormFile("image"); ferr == nil {
		image = file
		cleanup = func() { file.Close() }
	}
	return
}
