package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"popcorn/services"
)

// AddWatchedHandler saves the open movie with its pending rating.
func (h *Handler) AddWatchedHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	if _, err := ws.AddFromDetail(r.Context()); err != nil {
		switch {
		case errors.Is(err, services.ErrRatingRequired),
			errors.Is(err, services.ErrAlreadyWatched),
			errors.Is(err, services.ErrNoDetail):
			renderPanel(w, r, ws, services.UserMessage(err))
		default:
			internalError(w, err)
		}
		return
	}
	renderPanel(w, r, ws, "")
}

func (h *Handler) DeleteWatchedHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := ws.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		internalError(w, err)
		return
	}
	renderPanel(w, r, ws, "")
}
