package handlers

import (
	"net/http"
)

func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	render(w, "base", newViewData(r, ws))
}

// ResetSessionHandler forgets this browser. Its workspace is torn down and
// the next request starts with a new client id and an empty watched list.
func (h *Handler) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	h.workspaces.Drop(ws.ID)
	if err := h.sessions.Reset(w, r); err != nil {
		h.log.Warn("Failed to expire session cookie", "error", err)
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
