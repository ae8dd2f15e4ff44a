// Package outcome models the transient payment-outcome slot the result pages
// read: a take-once stash of depth one per outcome kind per session.
package outcome

import (
	"context"
	"sync"

	"github.com/photoframix/storefront/internal/domain"
)

// Stash holds at most one payload per (kind, session). Take returns the
// payload at most once; a second Take for the same slot yields nil. A missing
// or corrupt payload is not an error, the caller always gets renderable
// fields.
type Stash interface {
	Put(ctx context.Context, kind domain.OutcomeKind, sessionID string, fields map[string]string) error
	Take(ctx context.Context, kind domain.OutcomeKind, sessionID string) (map[string]string, error)
}

// MemoryStash is the in-process implementation used in tests and when no
// Redis is configured.
type MemoryStash struct {
	mu    sync.Mutex
	slots map[string]map[string]string
}

func NewMemoryStash() *MemoryStash {
	return &MemoryStash{
		slots: make(map[string]map[string]string),
	}
}

func (s *MemoryStash) Put(_ context.Context, kind domain.OutcomeKind, sessionID string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slotKey(kind, sessionID)] = fields
	return nil
}

func (s *MemoryStash) Take(_ context.Context, kind domain.OutcomeKind, sessionID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey(kind, sessionID)
	fields, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	delete(s.slots, key)
	return fields, nil
}

func slotKey(kind domain.OutcomeKind, sessionID string) string {
	return "payu:" + kind.String() + ":" + sessionID
}
