package handlers

import (
	"errors"
	"net/http"

	"popcorn/services"
)

// SearchHandler runs the query typed in the search box and returns the
// results panel. A request overtaken by a newer one renders nothing.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	st, err := ws.Search.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		if !errors.Is(err, services.ErrSuperseded) && !services.IsCanceled(err) {
			internalError(w, err)
			return
		}
		noSwap(w)
		return
	}

	v := newViewData(r, ws)
	v.Search = st
	render(w, "search-response", v)
}
