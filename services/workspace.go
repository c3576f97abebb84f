package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"popcorn/models"
	"popcorn/shared/logger"
)

// Workspace is the view state of one browser: the search box, the open
// detail panel, key bindings and the watched list it owns.
type Workspace struct {
	ID     string
	Search *Searcher
	Detail *DetailFetcher
	Title  *PageTitle
	Keys   *KeyBinder

	repo   WatchedStore
	policy DuplicatePolicy
	log    *slog.Logger

	mu          sync.Mutex
	watched     []models.WatchedEntry
	lastSeen    time.Time
	clearSearch bool
	enter       *Binding
	escape      *Binding
}

func newWorkspace(ctx context.Context, id string, source MovieSource, repo WatchedStore, policy DuplicatePolicy, now time.Time) (*Workspace, error) {
	watched, err := repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	title := NewPageTitle(DefaultPageTitle)
	w := &Workspace{
		ID:       id,
		Search:   NewSearcher(source),
		Detail:   NewDetailFetcher(source, title),
		Title:    title,
		Keys:     NewKeyBinder(),
		repo:     repo,
		policy:   policy,
		log:      logger.With("workspace", id),
		watched:  watched,
		lastSeen: now,
	}
	w.enter = w.Keys.Bind(KeyEnter, w.focusSearch)
	return w, nil
}

// focusSearch asks the next render to empty and focus the search box.
func (w *Workspace) focusSearch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clearSearch = true
}

// TakeSearchFocus reports and resets a pending focusSearch request.
func (w *Workspace) TakeSearchFocus() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.clearSearch
	w.clearSearch = false
	return v
}

// Toggle opens id in the detail panel, or closes the panel if id is already
// open.
func (w *Workspace) Toggle(ctx context.Context, id string) (DetailState, error) {
	if cur := w.Detail.State(); cur.ID != "" && cur.ID == id {
		w.CloseDetail()
		return w.Detail.State(), nil
	}
	return w.Open(ctx, id)
}

// Open loads id into the detail panel and binds Escape to close it.
func (w *Workspace) Open(ctx context.Context, id string) (DetailState, error) {
	w.mu.Lock()
	if w.escape == nil {
		w.escape = w.Keys.Bind(KeyEscape, w.CloseDetail)
	}
	w.mu.Unlock()
	st, err := w.Detail.Select(ctx, id)
	if IsCanceled(err) {
		w.CloseDetail()
	}
	return st, err
}

// CloseDetail unmounts the detail panel.
func (w *Workspace) CloseDetail() {
	w.Detail.Clear()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.escape.Unbind()
	w.escape = nil
}

func (w *Workspace) Rate(id string, rating int) error {
	return w.Detail.SetRating(id, rating)
}

// AddFromDetail saves the open movie with its pending rating and closes the
// panel.
func (w *Workspace) AddFromDetail(ctx context.Context) (models.WatchedEntry, error) {
	st := w.Detail.State()
	if st.Detail == nil {
		return models.WatchedEntry{}, ErrNoDetail
	}
	if st.UserRating == 0 {
		return models.WatchedEntry{}, ErrRatingRequired
	}
	entry := models.NewWatchedEntry(*st.Detail, st.UserRating)
	if err := w.Add(ctx, entry); err != nil {
		return models.WatchedEntry{}, err
	}
	w.CloseDetail()
	return entry, nil
}

// Add inserts e and mirrors the list to storage. Memory is only updated
// once the save succeeded.
func (w *Workspace) Add(ctx context.Context, e models.WatchedEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := AddWatched(w.watched, e, w.policy)
	if err != nil {
		return err
	}
	if err := w.repo.Save(ctx, w.ID, next); err != nil {
		w.log.Error("Failed to save watched list", "error", err)
		return err
	}
	w.watched = next
	w.log.Info("Added watched movie", "id", e.ID, "user_rating", e.UserRating)
	return nil
}

// Remove deletes every entry with id and mirrors the list to storage.
func (w *Workspace) Remove(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := RemoveWatched(w.watched, id)
	if err := w.repo.Save(ctx, w.ID, next); err != nil {
		w.log.Error("Failed to save watched list", "error", err)
		return err
	}
	w.watched = next
	w.log.Info("Removed watched movie", "id", id)
	return nil
}

func (w *Workspace) Watched() []models.WatchedEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.WatchedEntry{}, w.watched...)
}

// WatchedEntry returns the saved entry for id, if any.
func (w *Workspace) WatchedEntry(id string) (models.WatchedEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return FindWatched(w.watched, id)
}

func (w *Workspace) Summary() Summary {
	return Summarize(w.Watched())
}

// Close tears the workspace down: in-flight fetches are aborted and all key
// bindings released.
func (w *Workspace) Close() {
	w.Search.Close()
	w.CloseDetail()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enter.Unbind()
	w.enter = nil
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Workspaces hands out one Workspace per client id.
type Workspaces struct {
	source MovieSource
	repo   WatchedStore
	policy DuplicatePolicy
	now    func() time.Time

	// loading collapses concurrent first requests for one id into a single
	// Load, run without mu held.
	loading singleflight.Group

	mu   sync.Mutex
	byID map[string]*Workspace
}

func NewWorkspaces(source MovieSource, repo WatchedStore, policy DuplicatePolicy) *Workspaces {
	return &Workspaces{
		source: source,
		repo:   repo,
		policy: policy,
		now:    time.Now,
		byID:   make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it on first use. The watched
// list is loaded from storage exactly once, at creation. A slow load only
// holds up requests for the same id.
func (ws *Workspaces) Get(ctx context.Context, id string) (*Workspace, error) {
	if w := ws.lookup(id); w != nil {
		return w, nil
	}
	v, err, _ := ws.loading.Do(id, func() (any, error) {
		if w := ws.lookup(id); w != nil {
			return w, nil
		}
		w, err := newWorkspace(ctx, id, ws.source, ws.repo, ws.policy, ws.now())
		if err != nil {
			return nil, err
		}
		ws.mu.Lock()
		ws.byID[id] = w
		ws.mu.Unlock()
		logger.Debug("Workspace created", "workspace", id, "watched", len(w.watched))
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

func (ws *Workspaces) lookup(id string) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	w, ok := ws.byID[id]
	if ok {
		w.touch(ws.now())
	}
	return w
}

// Drop closes and forgets the workspace for id. Its stored watched list is
// left alone.
func (ws *Workspaces) Drop(id string) {
	ws.mu.Lock()
	w, ok := ws.byID[id]
	delete(ws.byID, id)
	ws.mu.Unlock()
	if ok {
		w.Close()
	}
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.byID)
}

// Sweep closes workspaces idle for longer than maxIdle and returns how many
// were removed.
func (ws *Workspaces) Sweep(maxIdle time.Duration) int {
	cutoff := ws.now().Add(-maxIdle)
	var idle []*Workspace

	ws.mu.Lock()
	for id, w := range ws.byID {
		if w.idleSince().Before(cutoff) {
			idle = append(idle, w)
			delete(ws.byID, id)
		}
	}
	ws.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}
	return len(idle)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (ws *Workspaces) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	logger.Info("Starting idle workspace sweeper", "interval", interval, "max_idle", maxIdle)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := ws.Sweep(maxIdle); n > 0 {
					logger.Debug("Swept idle workspaces", "count", n, "remaining", ws.Len())
				}
			}
		}
	}()
}
