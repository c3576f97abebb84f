package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/csrf"

	"popcorn/models"
	"popcorn/services"
	"popcorn/shared/logger"
)

// viewData is everything the page and its fragments render from.
type viewData struct {
	Title       string
	CSRFToken   string
	Search      services.SearchState
	Detail      services.DetailState
	Saved       *models.WatchedEntry
	Watched     []models.WatchedEntry
	Summary     services.Summary
	Keys        []string
	FocusSearch bool
	Notice      string
}

func newViewData(r *http.Request, ws *services.Workspace) viewData {
	v := viewData{
		Title:     ws.Title.String(),
		CSRFToken: csrf.Token(r),
		Search:    ws.Search.State(),
		Detail:    ws.Detail.State(),
		Watched:   ws.Watched(),
		Keys:      ws.Keys.Keys(),
	}
	v.Summary = services.Summarize(v.Watched)
	if v.Detail.ID != "" {
		if e, ok := ws.WatchedEntry(v.Detail.ID); ok {
			v.Saved = &e
		}
	}
	return v
}

// renderPanel re-renders the right-hand panel with the page title, key
// bindings and, after Enter, an emptied search box.
func renderPanel(w http.ResponseWriter, r *http.Request, ws *services.Workspace, notice string) {
	v := newViewData(r, ws)
	v.Notice = notice
	v.FocusSearch = ws.TakeSearchFocus()
	if v.FocusSearch {
		v.Search = clearSearch(r.Context(), ws)
	}
	render(w, "panel-response", v)
}

func clearSearch(ctx context.Context, ws *services.Workspace) services.SearchState {
	st, err := ws.Search.Search(ctx, "")
	if err != nil {
		logger.Debug("Clearing search failed", "error", err)
	}
	return st
}

// noSwap answers a request whose result was discarded. HTMX keeps the
// current DOM untouched.
func noSwap(w http.ResponseWriter) {
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusNoContent)
}
