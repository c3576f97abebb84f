package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"popcorn/models"
	sharedhttp "popcorn/shared/http"
	"popcorn/shared/logger"
)

// MovieSource is the remote movie database as seen by the fetchers.
type MovieSource interface {
	Search(ctx context.Context, query string) ([]models.MovieSummary, error)
	Detail(ctx context.Context, id string) (models.MovieDetail, error)
}

type omdbSearchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type omdbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	ImdbRating string `json:"imdbRating"`
	Plot       string `json:"Plot"`
	Actors     string `json:"Actors"`
	Director   string `json:"Director"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// OMDbClient talks to the OMDb API (https://www.omdbapi.com).
type OMDbClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

// NewOMDbClient returns a client for baseURL. A nil client uses
// sharedhttp.DefaultClient.
func NewOMDbClient(baseURL, apiKey string, client *http.Client) *OMDbClient {
	return &OMDbClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		log:     logger.With("component", "omdb"),
	}
}

func (c *OMDbClient) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	apiURL := sharedhttp.BuildQueryURL(c.baseURL, map[string]string{
		"s":      query,
		"apikey": c.apiKey,
	})

	var data omdbSearchResponse
	if err := sharedhttp.GetJSON(ctx, apiURL, c.client, &data); err != nil {
		return nil, c.fetchError(ctx, err)
	}
	if data.Response == "False" {
		return nil, fmt.Errorf("%w (%s)", ErrMovieNotFound, data.Error)
	}

	movies := make([]models.MovieSummary, 0, len(data.Search))
	for _, m := range data.Search {
		movies = append(movies, models.MovieSummary{
			ID:     m.ImdbID,
			Title:  m.Title,
			Year:   m.Year,
			Poster: posterURL(m.Poster),
		})
	}
	return movies, nil
}

func (c *OMDbClient) Detail(ctx context.Context, id string) (models.MovieDetail, error) {
	apiURL := sharedhttp.BuildQueryURL(c.baseURL, map[string]string{
		"i":      id,
		"apikey": c.apiKey,
	})

	var data omdbDetailResponse
	if err := sharedhttp.GetJSON(ctx, apiURL, c.client, &data); err != nil {
		return models.MovieDetail{}, c.fetchError(ctx, err)
	}
	if data.Response == "False" {
		return models.MovieDetail{}, fmt.Errorf("%w (%s)", ErrMovieNotFound, data.Error)
	}

	minutes, _ := models.ParseRuntime(data.Runtime)
	detailID := data.ImdbID
	if detailID == "" {
		detailID = id
	}
	return models.MovieDetail{
		MovieSummary: models.MovieSummary{
			ID:     detailID,
			Title:  data.Title,
			Year:   data.Year,
			Poster: posterURL(data.Poster),
		},
		Released:       data.Released,
		Runtime:        data.Runtime,
		RuntimeMinutes: minutes,
		Genre:          data.Genre,
		Director:       data.Director,
		Actors:         data.Actors,
		Plot:           data.Plot,
		IMDbRating:     models.ParseRating(data.ImdbRating),
	}, nil
}

// fetchError keeps cancellation distinguishable and folds everything else
// into ErrProblemFetching.
func (c *OMDbClient) fetchError(ctx context.Context, err error) error {
	if IsCanceled(err) || ctx.Err() == context.Canceled {
		return fmt.Errorf("omdb request aborted: %w", context.Canceled)
	}
	c.log.Warn("OMDb request failed", "error", err)
	return fmt.Errorf("%w: %v", ErrProblemFetching, err)
}

// posterURL drops OMDb's "N/A" placeholder.
func posterURL(p string) string {
	if strings.EqualFold(strings.TrimSpace(p), "N/A") {
		return ""
	}
	return p
}
