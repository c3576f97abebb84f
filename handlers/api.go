package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"popcorn/models"
	"popcorn/services"
)

type searchResponse struct {
	Query   string                `json:"query"`
	Results []models.MovieSummary `json:"results"`
	Error   string                `json:"error,omitempty"`
}

type addWatchedRequest struct {
	ID         string `json:"imdbId"`
	UserRating int    `json:"userRating"`
}

// APISearchHandler shares the browser's Searcher, so a newer search from the
// same client supersedes this one and it answers 409.
func (h *Handler) APISearchHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	st, err := ws.Search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if services.IsCanceled(err) {
			return
		}
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: st.Query, Results: st.Results, Error: st.Err})
}

// APIDetailHandler fetches a single title without touching the detail panel.
func (h *Handler) APIDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.source.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if services.IsCanceled(err) {
			return
		}
		writeJSONError(w, statusFor(err), services.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) APIListWatchedHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Watched())
}

// APIAddWatchedHandler looks the title up upstream and saves it with the
// given rating.
func (h *Handler) APIAddWatchedHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	var req addWatchedRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.ID == "" {
		writeJSONError(w, http.StatusBadRequest, "body must be {\"imdbId\": string, \"userRating\": 1-10}")
		return
	}
	if !models.ValidUserRating(req.UserRating) {
		writeJSONError(w, http.StatusBadRequest, services.ErrInvalidRating.Error())
		return
	}

	detail, err := h.source.Detail(r.Context(), req.ID)
	if err != nil {
		if services.IsCanceled(err) {
			return
		}
		writeJSONError(w, statusFor(err), services.UserMessage(err))
		return
	}

	entry := models.NewWatchedEntry(detail, req.UserRating)
	if err := ws.Add(r.Context(), entry); err != nil {
		if errors.Is(err, services.ErrAlreadyWatched) {
			writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error("Failed to add watched movie", "id", req.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save watched list")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) APIDeleteWatchedHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := ws.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.log.Error("Failed to remove watched movie", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save watched list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) APISummaryHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Summary())
}
