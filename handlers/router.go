package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"popcorn/middleware"
	"popcorn/services"
	"popcorn/shared/logger"
	sharedmw "popcorn/shared/middleware"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Source     services.MovieSource
	Sessions   *services.Sessions
	Workspaces *services.Workspaces
	// CSRFKey enables CSRF protection for form posts when non-nil.
	CSRFKey        []byte
	Secure         bool
	TrustedOrigins []string
}

// Handler serves the HTML pages, HTMX fragments and JSON API.
type Handler struct {
	source     services.MovieSource
	sessions   *services.Sessions
	workspaces *services.Workspaces
	log        *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		source:     d.Source,
		sessions:   d.Sessions,
		workspaces: d.Workspaces,
		log:        logger.With("component", "handlers"),
	}

	r := chi.NewRouter()
	r.Use(sharedmw.Logging)
	r.Use(middleware.SecurityHeaders)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	r.Get("/ping", PingHandler)

	r.Group(func(r chi.Router) {
		if d.CSRFKey != nil {
			r.Use(middleware.CSRF(d.CSRFKey, d.Secure, d.TrustedOrigins...))
		}
		r.Use(middleware.RequireClient(d.Sessions, d.Workspaces))

		r.Get("/", h.IndexHandler)
		r.Get("/search", h.SearchHandler)
		r.Get("/movies/{id}", h.ToggleDetailHandler)
		r.Post("/movies/{id}/rating", h.RateHandler)
		r.Post("/details/close", h.CloseDetailHandler)
		r.Post("/watched", h.AddWatchedHandler)
		r.Post("/watched/{id}/delete", h.DeleteWatchedHandler)
		r.Post("/keys/{key}", h.KeyHandler)
		r.Post("/session/reset", h.ResetSessionHandler)

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", h.APISearchHandler)
			r.Get("/movies/{id}", h.APIDetailHandler)
			r.Get("/watched", h.APIListWatchedHandler)
			r.Post("/watched", h.APIAddWatchedHandler)
			r.Delete("/watched/{id}", h.APIDeleteWatchedHandler)
			r.Get("/watched/summary", h.APISummaryHandler)
		})
	})

	return r
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// workspace returns the request's workspace. RequireClient guarantees one
// on every route that calls it.
func workspace(w http.ResponseWriter, r *http.Request) (*services.Workspace, bool) {
	ws, ok := middleware.WorkspaceFromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
	}
	return ws, ok
}
