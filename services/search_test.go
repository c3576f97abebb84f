package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcorn/models"
)

func TestSearchShortQueryMakesNoCall(t *testing.T) {
	src := newGatedSource()
	s := NewSearcher(src)

	for _, q := range []string{"", "a", "é"} {
		st, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, SearchState{Query: q, Results: []models.MovieSummary{}}, st)
	}
	assert.Zero(t, src.calls.Load())
}

func TestSearchResults(t *testing.T) {
	src := newGatedSource()
	src.results["matrix"] = []models.MovieSummary{{ID: "tt0133093", Title: "The Matrix", Year: "1999"}}
	s := NewSearcher(src)

	st, err := s.Search(context.Background(), "matrix")
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "The Matrix", st.Results[0].Title)
	assert.Equal(t, st, s.State())
}

func TestSearchNotFound(t *testing.T) {
	src := newGatedSource()
	src.errs["ab"] = ErrMovieNotFound
	s := NewSearcher(src)

	st, err := s.Search(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, "Movie not found!", st.Err)
	assert.Empty(t, st.Results)
	assert.False(t, st.Loading)
}

func TestSearchProblemFetchingClearsOnSuccess(t *testing.T) {
	src := newGatedSource()
	src.errs["broken"] = errors.New("dial tcp: connection refused")
	src.results["fine"] = []models.MovieSummary{{ID: "tt1"}}
	s := NewSearcher(src)

	st, err := s.Search(context.Background(), "broken")
	require.NoError(t, err)
	assert.Equal(t, "Problem in fetching the movies", st.Err)

	st, err = s.Search(context.Background(), "fine")
	require.NoError(t, err)
	assert.Empty(t, st.Err)
	assert.Len(t, st.Results, 1)
}

func TestSearchSupersededRequestNeverSetsError(t *testing.T) {
	src := newGatedSource()
	src.gate("ab")
	src.results["abc"] = []models.MovieSummary{{ID: "tt2", Title: "Final"}}
	s := NewSearcher(src)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "ab")
		done <- err
	}()
	require.Equal(t, "ab", <-src.started)
	assert.True(t, s.State().Loading)

	st, err := s.Search(context.Background(), "abc")
	require.NoError(t, err)
	<-src.started

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded search was not aborted")
	}

	final := s.State()
	assert.Equal(t, st, final)
	assert.Empty(t, final.Err)
	assert.Equal(t, "abc", final.Query)
	require.Len(t, final.Results, 1)
	assert.Equal(t, "Final", final.Results[0].Title)
}

func TestSearchLateCompletionIsDiscarded(t *testing.T) {
	src := newGatedSource()
	src.honorCtx = false
	release := src.gate("old")
	src.results["old"] = []models.MovieSummary{{ID: "stale"}}
	src.results["new"] = []models.MovieSummary{{ID: "fresh"}}
	s := NewSearcher(src)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "old")
		done <- err
	}()
	<-src.started

	_, err := s.Search(context.Background(), "new")
	require.NoError(t, err)
	<-src.started
	release()

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "fresh", s.State().Results[0].ID)
}

func TestSearchCancelledByCallerIsSilent(t *testing.T) {
	src := newGatedSource()
	src.gate("slow")
	s := NewSearcher(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "slow")
		done <- err
	}()
	<-src.started
	cancel()

	err := <-done
	assert.True(t, IsCanceled(err))
	st := s.State()
	assert.Empty(t, st.Err)
	assert.False(t, st.Loading)
}

func TestSearchCloseAbortsInFlight(t *testing.T) {
	src := newGatedSource()
	src.gate("slow")
	s := NewSearcher(src)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "slow")
		done <- err
	}()
	<-src.started
	s.Close()

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Empty(t, s.State().Err)
	assert.False(t, s.State().Loading)
}

func TestSearchShortQueryAbortsInFlight(t *testing.T) {
	src := newGatedSource()
	src.gate("slow")
	s := NewSearcher(src)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "slow")
		done <- err
	}()
	<-src.started

	st, err := s.Search(context.Background(), "s")
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Empty(t, s.State().Results)
}

func TestSearchCancelledKeepsPreviousQuery(t *testing.T) {
	src := newGatedSource()
	src.results["heat"] = []models.MovieSummary{{ID: "tt0113277", Title: "Heat"}}
	s := NewSearcher(src)

	_, err := s.Search(context.Background(), "heat")
	require.NoError(t, err)
	<-src.started

	src.gate("heatwave")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "heatwave")
		done <- err
	}()
	<-src.started
	cancel()

	assert.True(t, IsCanceled(<-done))
	st := s.State()
	assert.Equal(t, "heat", st.Query)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "tt0113277", st.Results[0].ID)
	assert.False(t, st.Loading)
}
