package services

import (
	"sort"
	"sync"
)

// Key codes as reported by KeyboardEvent.code.
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// KeyBinder maps key presses to actions for one browser. Views bind keys
// while they are mounted and unbind them on teardown.
type KeyBinder struct {
	mu       sync.Mutex
	next     uint64
	bindings map[uint64]*Binding
}

// Binding is a single registered key. Unbind is safe to call more than once.
type Binding struct {
	binder *KeyBinder
	id     uint64
	key    string
	action func()
}

func NewKeyBinder() *KeyBinder {
	return &KeyBinder{bindings: make(map[uint64]*Binding)}
}

func (b *KeyBinder) Bind(key string, action func()) *Binding {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	bd := &Binding{binder: b, id: b.next, key: key, action: action}
	b.bindings[bd.id] = bd
	return bd
}

func (bd *Binding) Unbind() {
	if bd == nil {
		return
	}
	bd.binder.mu.Lock()
	defer bd.binder.mu.Unlock()
	delete(bd.binder.bindings, bd.id)
}

// Dispatch runs every action bound to key once, in bind order, and returns
// how many ran. Actions run without the binder lock held so they may bind or
// unbind keys themselves.
func (b *KeyBinder) Dispatch(key string) int {
	b.mu.Lock()
	var matched []*Binding
	for _, bd := range b.bindings {
		if bd.key == key {
			matched = append(matched, bd)
		}
	}
	b.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })
	for _, bd := range matched {
		bd.action()
	}
	return len(matched)
}

// Keys lists the distinct bound keys in sorted order.
func (b *KeyBinder) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	var keys []string
	for _, bd := range b.bindings {
		if !seen[bd.key] {
			seen[bd.key] = true
			keys = append(keys, bd.key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Bound reports whether any action is bound to key.
func (b *KeyBinder) Bound(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bd := range b.bindings {
		if bd.key == key {
			return true
		}
	}
	return false
}
