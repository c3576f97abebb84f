package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MovieSummary is one row of a search result.
type MovieSummary struct {
	ID     string `json:"imdbID"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

// MovieDetail is the full record for a single title.
type MovieDetail struct {
	MovieSummary
	Released       string `json:"released"`
	Runtime        string `json:"runtime"` // as sent upstream, e.g. "142 min"
	RuntimeMinutes int    `json:"runtimeMinutes"`
	Genre          string `json:"genre"`
	Director       string `json:"director"`
	Actors         string `json:"actors"`
	Plot           string `json:"plot"`
	IMDbRating     Rating `json:"imdbRating"`
}

// WatchedEntry is a movie the user rated and saved. The JSON shape is what
// gets persisted, so field tags must stay stable.
type WatchedEntry struct {
	ID             string `json:"imdbId"`
	Title          string `json:"title"`
	Year           string `json:"year"`
	Poster         string `json:"poster"`
	RuntimeMinutes int    `json:"runtime"`
	IMDbRating     Rating `json:"imdbRating"`
	UserRating     int    `json:"userRating"`
}

const (
	MinUserRating = 1
	MaxUserRating = 10
)

// ValidUserRating reports whether n is inside the 1..10 star range.
func ValidUserRating(n int) bool {
	return n >= MinUserRating && n <= MaxUserRating
}

// Rating is an optional decimal score. Upstream sends "N/A" for unknown
// ratings; that decodes to an invalid Rating rather than an error.
type Rating struct {
	Value float64
	Valid bool
}

// ParseRating converts an upstream rating string such as "8.6".
func ParseRating(s string) Rating {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Rating{}
	}
	return Rating{Value: f, Valid: true}
}

func (r Rating) String() string {
	if !r.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = Rating{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*r = ParseRating(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Rating{Value: f, Valid: true}
	return nil
}

// ParseRuntime reads the leading minute count from strings like "142 min".
func ParseRuntime(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NewWatchedEntry builds the entry saved when the user adds a rated movie.
func NewWatchedEntry(d MovieDetail, userRating int) WatchedEntry {
	return WatchedEntry{
		ID:             d.ID,
		Title:          d.Title,
		Year:           d.Year,
		Poster:         d.Poster,
		RuntimeMinutes: d.RuntimeMinutes,
		IMDbRating:     d.IMDbRating,
		UserRating:     userRating,
	}
}
