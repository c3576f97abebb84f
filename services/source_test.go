package services

import (
	"context"
	"sync"
	"sync/atomic"

	"popcorn/models"
)

// gatedSource blocks each call until the test releases it, so tests can
// control completion order. Calls for keys with no gate return immediately.
type gatedSource struct {
	mu       sync.Mutex
	gates    map[string]chan struct{}
	started  chan string
	results  map[string][]models.MovieSummary
	details  map[string]models.MovieDetail
	errs     map[string]error
	honorCtx bool
	calls    atomic.Int32
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		gates:    make(map[string]chan struct{}),
		started:  make(chan string, 16),
		results:  make(map[string][]models.MovieSummary),
		details:  make(map[string]models.MovieDetail),
		errs:     make(map[string]error),
		honorCtx: true,
	}
}

// gate makes calls for key wait until release is called.
func (g *gatedSource) gate(key string) (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[key] = ch
	g.mu.Unlock()
	return func() { close(ch) }
}

func (g *gatedSource) wait(ctx context.Context, key string) error {
	g.calls.Add(1)
	g.started <- key
	g.mu.Lock()
	ch := g.gates[key]
	g.mu.Unlock()
	if ch == nil {
		return nil
	}
	if !g.honorCtx {
		<-ch
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedSource) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	if err := g.wait(ctx, query); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.errs[query]; err != nil {
		return nil, err
	}
	return g.results[query], nil
}

func (g *gatedSource) Detail(ctx context.Context, id string) (models.MovieDetail, error) {
	if err := g.wait(ctx, id); err != nil {
		return models.MovieDetail{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.errs[id]; err != nil {
		return models.MovieDetail{}, err
	}
	return g.details[id], nil
}

func movie(id, title string) models.MovieDetail {
	return models.MovieDetail{
		MovieSummary:   models.MovieSummary{ID: id, Title: title, Year: "1972"},
		Runtime:        "175 min",
		RuntimeMinutes: 175,
		IMDbRating:     models.ParseRating("9.2"),
	}
}
