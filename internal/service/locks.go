package service

import "sync"

// BraceletLocks serializes read-modify-write sequences per bracelet
// id. Every persisted key is namespaced per bracelet, so two bracelets
// never contend; within one bracelet, overlapping decay, session and
// merit writes must not interleave.
type BraceletLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// NewBraceletLocks returns an empty lock table.
func NewBraceletLocks() *BraceletLocks {
	return &BraceletLocks{m: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for one bracelet and returns its unlock
// function. Mutexes are created on first use and kept for the process
// lifetime; the id space is small (one entry per bracelet seen).
func (l *BraceletLocks) Lock(braceletID string) func() {
	l.mu.Lock()
	m, ok := l.m[braceletID]
	if !ok {
		m = &sync.Mutex{}
		l.m[braceletID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
