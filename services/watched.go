package services

import (
	"fmt"
	"strings"

	"popcorn/models"
)

// DuplicatePolicy decides what AddWatched does when the id is already listed.
type DuplicatePolicy string

const (
	DuplicatesReject  DuplicatePolicy = "reject"
	DuplicatesReplace DuplicatePolicy = "replace"
	DuplicatesAllow   DuplicatePolicy = "allow"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicatesReject, DuplicatesReplace, DuplicatesAllow:
		return p, nil
	case "":
		return DuplicatesReject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// AddWatched returns a new list with e appended, or updated in place under
// DuplicatesReplace. The input slice is not modified.
func AddWatched(list []models.WatchedEntry, e models.WatchedEntry, policy DuplicatePolicy) ([]models.WatchedEntry, error) {
	if e.ID == "" {
		return nil, ErrNoDetail
	}
	if !models.ValidUserRating(e.UserRating) {
		return nil, ErrInvalidRating
	}

	out := make([]models.WatchedEntry, len(list), len(list)+1)
	copy(out, list)

	if policy != DuplicatesAllow {
		for i := range out {
			if out[i].ID != e.ID {
				continue
			}
			if policy == DuplicatesReplace {
				out[i] = e
				return out, nil
			}
			return nil, ErrAlreadyWatched
		}
	}
	return append(out, e), nil
}

// RemoveWatched drops every entry with the given id and keeps the rest in
// their original order.
func RemoveWatched(list []models.WatchedEntry, id string) []models.WatchedEntry {
	out := make([]models.WatchedEntry, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// FindWatched returns the first entry with the given id.
func FindWatched(list []models.WatchedEntry, id string) (models.WatchedEntry, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return models.WatchedEntry{}, false
}
