package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailSelectSetsTitle(t *testing.T) {
	src := newGatedSource()
	src.details["tt0068646"] = movie("tt0068646", "The Godfather")
	title := NewPageTitle(DefaultPageTitle)
	d := NewDetailFetcher(src, title)

	st, err := d.Select(context.Background(), "tt0068646")
	require.NoError(t, err)
	require.NotNil(t, st.Detail)
	assert.Equal(t, "The Godfather", st.Detail.Title)
	assert.False(t, st.Loading)
	assert.Equal(t, "Movie | The Godfather", title.String())

	d.Clear()
	assert.Equal(t, DefaultPageTitle, title.String())
	assert.Nil(t, d.State().Detail)
}

func TestDetailEmptyIDDoesNotFetch(t *testing.T) {
	src := newGatedSource()
	d := NewDetailFetcher(src, NewPageTitle(DefaultPageTitle))

	st, err := d.Select(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DetailState{}, st)
	assert.Zero(t, src.calls.Load())
}

// Selecting a second movie while the first is still loading must end with
// the second one shown, whichever response arrives last.
func TestDetailOutOfOrderCompletion(t *testing.T) {
	src := newGatedSource()
	src.honorCtx = false
	releaseOld := src.gate("tt0068646")
	releaseNew := src.gate("tt0111161")
	src.details["tt0068646"] = movie("tt0068646", "The Godfather")
	src.details["tt0111161"] = movie("tt0111161", "The Shawshank Redemption")
	title := NewPageTitle(DefaultPageTitle)
	d := NewDetailFetcher(src, title)

	oldDone := make(chan error, 1)
	go func() {
		_, err := d.Select(context.Background(), "tt0068646")
		oldDone <- err
	}()
	<-src.started

	newDone := make(chan DetailState, 1)
	go func() {
		st, err := d.Select(context.Background(), "tt0111161")
		assert.NoError(t, err)
		newDone <- st
	}()
	<-src.started

	// Newer response first, then the stale one.
	releaseNew()
	st := <-newDone
	releaseOld()
	assert.ErrorIs(t, <-oldDone, ErrSuperseded)

	assert.Equal(t, "tt0111161", st.Detail.ID)
	final := d.State()
	require.NotNil(t, final.Detail)
	assert.Equal(t, "tt0111161", final.Detail.ID)
	assert.Equal(t, "Movie | The Shawshank Redemption", title.String())
}

func TestDetailOutOfOrderCompletionStaleLast(t *testing.T) {
	src := newGatedSource()
	src.honorCtx = false
	releaseOld := src.gate("tt0068646")
	src.details["tt0068646"] = movie("tt0068646", "The Godfather")
	src.details["tt0111161"] = movie("tt0111161", "The Shawshank Redemption")
	d := NewDetailFetcher(src, NewPageTitle(DefaultPageTitle))

	oldDone := make(chan error, 1)
	go func() {
		_, err := d.Select(context.Background(), "tt0068646")
		oldDone <- err
	}()
	<-src.started

	_, err := d.Select(context.Background(), "tt0111161")
	require.NoError(t, err)
	releaseOld()
	assert.ErrorIs(t, <-oldDone, ErrSuperseded)
	assert.Equal(t, "tt0111161", d.State().Detail.ID)
}

func TestDetailErrorIsReported(t *testing.T) {
	src := newGatedSource()
	src.errs["tt404"] = ErrMovieNotFound
	title := NewPageTitle(DefaultPageTitle)
	d := NewDetailFetcher(src, title)

	st, err := d.Select(context.Background(), "tt404")
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Detail)
	assert.Equal(t, "Movie not found!", st.Err)
	assert.Equal(t, DefaultPageTitle, title.String())
}

func TestDetailSupersedeRevertsTitle(t *testing.T) {
	src := newGatedSource()
	src.details["a"] = movie("a", "First")
	release := src.gate("b")
	title := NewPageTitle(DefaultPageTitle)
	d := NewDetailFetcher(src, title)

	_, err := d.Select(context.Background(), "a")
	require.NoError(t, err)
	<-src.started
	assert.Equal(t, "Movie | First", title.String())

	go d.Select(context.Background(), "b")
	<-src.started
	assert.Equal(t, DefaultPageTitle, title.String(), "title reverts while the next movie loads")
	assert.True(t, d.State().Loading)
	release()
}

func TestDetailSetRating(t *testing.T) {
	src := newGatedSource()
	src.details["tt1"] = movie("tt1", "One")
	d := NewDetailFetcher(src, NewPageTitle(DefaultPageTitle))

	assert.ErrorIs(t, d.SetRating("tt1", 5), ErrNoDetail)

	_, err := d.Select(context.Background(), "tt1")
	require.NoError(t, err)
	assert.ErrorIs(t, d.SetRating("tt1", 0), ErrInvalidRating)
	assert.ErrorIs(t, d.SetRating("tt1", 11), ErrInvalidRating)
	assert.ErrorIs(t, d.SetRating("tt2", 5), ErrNoDetail)
	require.NoError(t, d.SetRating("tt1", 7))
	assert.Equal(t, 7, d.State().UserRating)
}

func TestPageTitleEnterExit(t *testing.T) {
	p := NewPageTitle("usePopCorn")
	assert.Equal(t, "usePopCorn", p.String())

	p.Enter("Movie | Heat")
	assert.Equal(t, "Movie | Heat", p.String())

	p.Exit()
	p.Exit()
	assert.Equal(t, "usePopCorn", p.String())
}
