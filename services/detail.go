package services

import (
	"context"
	"log/slog"
	"sync"

	"popcorn/models"
	"popcorn/shared/logger"
)

// DetailState is what the detail panel renders.
type DetailState struct {
	ID         string
	Detail     *models.MovieDetail
	Loading    bool
	Err        string
	UserRating int
}

// DetailFetcher loads the selected movie. Every Select takes a new
// generation number and only the fetch holding the latest one may commit,
// so results arriving out of order are dropped.
type DetailFetcher struct {
	source MovieSource
	title  *PageTitle
	log    *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  DetailState
}

func NewDetailFetcher(source MovieSource, title *PageTitle) *DetailFetcher {
	return &DetailFetcher{
		source: source,
		title:  title,
		log:    logger.With("component", "detail"),
	}
}

func (d *DetailFetcher) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Select loads id and waits for it. An empty id clears the selection.
// It returns ErrSuperseded when another Select or Clear happened before the
// fetch finished. If ctx is cancelled first the selection is dropped, so the
// panel never stays stuck loading.
func (d *DetailFetcher) Select(ctx context.Context, id string) (DetailState, error) {
	if id == "" {
		d.Clear()
		return d.State(), nil
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.abortLocked()
	d.title.Exit()
	d.state = DetailState{ID: id, Loading: true}
	reqCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	detail, err := d.source.Detail(reqCtx, id)
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		d.log.Debug("Discarding stale detail", "id", id)
		return d.state, ErrSuperseded
	}
	d.cancel = nil
	d.state.Loading = false

	if err != nil {
		if IsCanceled(err) {
			d.log.Debug("Detail fetch aborted", "id", id)
			d.state = DetailState{}
			d.title.Exit()
			return d.state, err
		}
		d.log.Error("Detail fetch failed", "id", id, "error", err)
		d.state.Err = UserMessage(err)
		return d.state, nil
	}

	d.state.Detail = &detail
	if detail.Title != "" {
		d.title.Enter("Movie | " + detail.Title)
	}
	return d.state, nil
}

// SetRating records the user's star rating for the open movie.
func (d *DetailFetcher) SetRating(id string, rating int) error {
	if !models.ValidUserRating(rating) {
		return ErrInvalidRating
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Detail == nil || d.state.ID != id {
		return ErrNoDetail
	}
	d.state.UserRating = rating
	return nil
}

// Clear closes the detail view and restores the page title.
func (d *DetailFetcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.abortLocked()
	d.title.Exit()
	d.state = DetailState{}
}

func (d *DetailFetcher) abortLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
