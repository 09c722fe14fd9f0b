package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default single-process [Store]. One reader/writer lock
// guards both the entry map and the per-subject index so the two structures
// are always observed together; IsRevoked is the read path.
//
// Revocation recorded here is visible only within this process. A
// multi-instance deployment needs [RedisStore] instead; the contract is
// identical.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	bySubject map[string]map[string]struct{}
}

// NewMemoryStore returns an empty store. Construct one per process at
// startup and inject it; there is no package-level instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]Entry),
		bySubject: make(map[string]map[string]struct{}),
	}
}

// Revoke implements [Store].
func (s *MemoryStore) Revoke(_ context.Context, jti, subject string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[jti]; ok && prev.Subject != subject {
		s.unindex(prev.Subject, jti)
	}

	s.entries[jti] = Entry{JTI: jti, Subject: subject, ExpiresAt: expiresAt}
	set, ok := s.bySubject[subject]
	if !ok {
		set = make(map[string]struct{})
		s.bySubject[subject] = set
	}
	set[jti] = struct{}{}

	return nil
}

// RevokeAllForSubject implements [Store]. Entries are extended in place;
// expired-but-unswept entries indexed under the subject come back to life,
// which is what a forced re-authentication wants.
func (s *MemoryStore) RevokeAllForSubject(_ context.Context, subject string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti := range s.bySubject[subject] {
		entry, ok := s.entries[jti]
		if !ok {
			continue
		}
		if expiresAt.After(entry.ExpiresAt) {
			entry.ExpiresAt = expiresAt
			s.entries[jti] = entry
		}
	}

	return nil
}

// IsRevoked implements [Store].
func (s *MemoryStore) IsRevoked(_ context.Context, jti, subject string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[jti]
	if !ok {
		return false, nil
	}

	return entry.Subject == subject && time.Now().Before(entry.ExpiresAt), nil
}

// Sweep implements [Store].
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for jti, entry := range s.entries {
		if entry.ExpiresAt.After(now) {
			continue
		}
		delete(s.entries, jti)
		s.unindex(entry.Subject, jti)
		removed++
	}

	return removed, nil
}

// Size implements [Store].
func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear implements [Store].
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	s.bySubject = make(map[string]map[string]struct{})
	return nil
}

// unindex removes jti from subject's index set and drops the set once empty.
// Callers hold the write lock.
func (s *MemoryStore) unindex(subject, jti string) {
	set, ok := s.bySubject[subject]
	if !ok {
		return
	}
	delete(set, jti)
	if len(set) == 0 {
		delete(s.bySubject, subject)
	}
}
