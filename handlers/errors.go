package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"popcorn/services"
	"popcorn/shared/logger"
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	logger.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a service error to an HTTP status for the JSON API.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProblemFetching):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrAlreadyWatched), errors.Is(err, services.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidRating), errors.Is(err, services.ErrRatingRequired),
		errors.Is(err, services.ErrNoDetail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
