package services

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"popcorn/models"
	"popcorn/shared/format"
	"popcorn/shared/logger"
)

// MinQueryLength is the shortest query that reaches the network.
const MinQueryLength = 2

// SearchState is what the results panel renders.
type SearchState struct {
	Query   string
	Results []models.MovieSummary
	Loading bool
	Err     string
}

func (s SearchState) clone() SearchState {
	s.Results = append([]models.MovieSummary{}, s.Results...)
	return s
}

// Searcher runs at most one search against a MovieSource at a time. Starting
// a new search aborts the one in flight, and a search that lost the race
// never writes state.
type Searcher struct {
	source MovieSource
	log    *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  SearchState
}

func NewSearcher(source MovieSource) *Searcher {
	return &Searcher{
		source: source,
		log:    logger.With("component", "search"),
		state:  SearchState{Results: []models.MovieSummary{}},
	}
}

// State returns a copy of the current state.
func (s *Searcher) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Search replaces the current query and waits for its results.
//
// Fetch failures are reported through SearchState.Err, not the returned
// error. The error is non-nil only when there is nothing new to render:
// ErrSuperseded if a newer search started meanwhile, or a context.Canceled
// error if ctx was cancelled. A cancelled search leaves the previous query
// and results in place.
func (s *Searcher) Search(ctx context.Context, query string) (SearchState, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.abortLocked()

	if utf8.RuneCountInString(query) < MinQueryLength {
		s.state = SearchState{Query: query, Results: []models.MovieSummary{}}
		st := s.state.clone()
		s.mu.Unlock()
		return st, nil
	}

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	prev := s.state.Query
	s.state.Query = query
	s.state.Loading = true
	s.mu.Unlock()

	results, err := s.source.Search(reqCtx, query)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("Discarding superseded search", "query", format.Preview(query, 40))
		return s.state.clone(), ErrSuperseded
	}
	s.cancel = nil
	s.state.Loading = false

	switch {
	case err == nil:
		if results == nil {
			results = []models.MovieSummary{}
		}
		s.state.Results = results
		s.state.Err = ""
	case IsCanceled(err):
		s.log.Debug("Search aborted", "query", format.Preview(query, 40))
		s.state.Query = prev
		return s.state.clone(), err
	default:
		s.log.Error("Search failed", "query", format.Preview(query, 40), "error", err)
		s.state.Results = []models.MovieSummary{}
		s.state.Err = UserMessage(err)
	}
	return s.state.clone(), nil
}

// Close aborts any in-flight search. Later completions are discarded.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.abortLocked()
	s.state.Loading = false
}

func (s *Searcher) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
