package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"popcorn/services"
)

// ToggleDetailHandler opens the clicked movie, or closes it when it is
// already open.
func (h *Handler) ToggleDetailHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	if _, err := ws.Toggle(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, services.ErrSuperseded) || services.IsCanceled(err) {
			noSwap(w)
			return
		}
		internalError(w, err)
		return
	}
	renderPanel(w, r, ws, "")
}

func (h *Handler) RateHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	// A non-numeric rating falls through as 0 and is rejected by Rate.
	rating, _ := strconv.Atoi(r.FormValue("rating"))
	notice := ""
	// ErrNoDetail means the panel moved on; just show what is open now.
	if err := ws.Rate(chi.URLParam(r, "id"), rating); err != nil && !errors.Is(err, services.ErrNoDetail) {
		notice = services.UserMessage(err)
	}
	renderPanel(w, r, ws, notice)
}

func (h *Handler) CloseDetailHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	ws.CloseDetail()
	renderPanel(w, r, ws, "")
}
