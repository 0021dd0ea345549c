package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/inkstream/inkstream-be/internal/api/handlers"
	"github.com/inkstream/inkstream-be/internal/auth"
	"github.com/inkstream/inkstream-be/internal/cache"
	"github.com/inkstream/inkstream-be/internal/render"
	"github.com/inkstream/inkstream-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	feedService services.FeedServiceProvider,
	postService services.PostServiceProvider,
	followService services.FollowServiceProvider,
	groupService services.GroupServiceProvider,
	userService services.UserServiceProvider,
	renderer render.Renderer,
	feedCache cache.FeedCache,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Every request resolves a viewer; anonymous is a valid outcome.
	r.Use(auth.Identify())

	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(feedService, renderer, feedCache)
	postHandler := handlers.NewPostHandler(postService, renderer)
	followHandler := handlers.NewFollowHandler(followService)
	groupHandler := handlers.NewGroupHandler(groupService)
	userHandler := handlers.NewUserHandler(userService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	r.Get("/", feedHandler.Global)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireViewer())
		r.Get("/following", feedHandler.Following)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", groupHandler.List)
		r.With(auth.RequireViewer()).Post("/", groupHandler.Create)
		r.Get("/{slug}", feedHandler.Group)
	})

	r.Route("/profiles/{username}", func(r chi.Router) {
		r.Get("/", feedHandler.Profile)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireViewer())
			r.Post("/follow", followHandler.Follow)
			r.Delete("/follow", followHandler.Unfollow)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.With(auth.RequireViewer()).Post("/", postHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", postHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireViewer())
				r.Put("/", postHandler.Update)
				r.Delete("/", postHandler.Delete)
				r.Post("/comments", postHandler.CreateComment)
			})
		})
	})

	return r
}
