package store

import (
	"sync"
	"time"
)

// List is a concurrency-safe snapshot of one upstream collection.
type List[T any] struct {
	mu       sync.RWMutex
	items    []T
	loaded   bool
	lastSync time.Time
	lastErr  error
}

func NewList[T any]() *List[T] {
	return &List[T]{items: []T{}}
}

// Set replaces the snapshot.
func (l *List[T]) Set(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	l.items = items
	l.loaded = true
	l.lastSync = time.Now()
	l.lastErr = nil
}

// SetError records a failed refresh. A stale snapshot stays readable.
func (l *List[T]) SetError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = err
}

// Items returns a copy of the snapshot.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Loaded reports whether at least one refresh has succeeded.
func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// LastSync is the time of the last successful refresh.
func (l *List[T]) LastSync() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSync
}

// LastError is the error from the most recent refresh, nil after a success.
func (l *List[T]) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}
