package services

import "sync"

// DefaultPageTitle is shown whenever no movie detail is open.
const DefaultPageTitle = "usePopCorn"

// PageTitle is a scoped document title. Enter sets it while a detail view is
// open and Exit restores the default; every path that closes or replaces the
// detail view calls Exit.
type PageTitle struct {
	mu  sync.Mutex
	def string
	cur string
}

func NewPageTitle(def string) *PageTitle {
	return &PageTitle{def: def, cur: def}
}

func (p *PageTitle) Enter(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur = title
}

// Exit is idempotent.
func (p *PageTitle) Exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur = p.def
}

func (p *PageTitle) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}
