package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/cache"
	"github.com/inkstream/inkstream-be/internal/render"
	"github.com/inkstream/inkstream-be/internal/services"
)

// FeedHandler serves the four feed kinds. It owns the only consumer side
// of the feed cache: the anonymous first page of the global feed.
type FeedHandler struct {
	feeds     services.FeedServiceProvider
	renderer  render.Renderer
	feedCache cache.FeedCache
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feeds services.FeedServiceProvider, renderer render.Renderer, feedCache cache.FeedCache) *FeedHandler {
	return &FeedHandler{feeds: feeds, renderer: renderer, feedCache: feedCache}
}

// Global serves the feed of all posts. The rendering of the anonymous
// first page is cached; a hit returns the stored bytes untouched even if
// the data changed since, until invalidation or TTL expiry.
func (h *FeedHandler) Global(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	viewer := auth.ViewerFrom(r.Context())
	cacheable := page == 1 && !viewer.Authenticated()

	if cacheable {
		if body, ok := h.feedCache.Get(); ok {
			writeRendered(w, body)
			return
		}
	}

	p, err := h.feeds.Global(page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := h.renderer.Render(render.TemplateIndex, render.Context{"page": p})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if cacheable {
		h.feedCache.Put(body)
	}
	writeRendered(w, body)
}

// Group serves the feed of one group, resolved by slug.
func (h *FeedHandler) Group(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	group, p, err := h.feeds.Group(slug, parsePage(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := h.renderer.Render(render.TemplateGroup, render.Context{"group": group, "page": p})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeRendered(w, body)
}

// Profile serves an author's feed plus their counts and, for an
// authenticated viewer, whether the viewer follows them.
func (h *FeedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := auth.ViewerFrom(r.Context())
	profile, p, err := h.feeds.Profile(viewer, username, parsePage(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := h.renderer.Render(render.TemplateProfile, render.Context{
		"author":         profile.Author,
		"page":           p,
		"count":          profile.PostCount,
		"followerCount":  profile.FollowerCount,
		"followingCount": profile.FollowingCount,
		"following":      profile.ViewerFollows,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeRendered(w, body)
}

// Following serves the merged feed of the authors the viewer follows.
func (h *FeedHandler) Following(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	p, err := h.feeds.Following(viewer, parsePage(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := h.renderer.Render(render.TemplateFollow, render.Context{"page": p})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeRendered(w, body)
}

func writeRendered(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
