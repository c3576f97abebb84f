package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// KeyHandler runs the actions bound to a key pressed in the browser. The
// page only listens for keys that are currently bound, so an unbound key
// here is a stale page and changes nothing.
func (h *Handler) KeyHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	key := chi.URLParam(r, "key")
	if n := ws.Keys.Dispatch(key); n == 0 {
		h.log.Debug("Key not bound", "key", key, "workspace", ws.ID)
	}
	renderPanel(w, r, ws, "")
}
