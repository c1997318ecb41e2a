package sessionstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/loginus-id/api/internal/domain"
)

// Memory is the default in-process Store. Expired entries persist until
// looked up or scanned; there is no background sweeper, so memory for
// abandoned sessions is reclaimed only lazily.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*domain.VerificationSession
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*domain.VerificationSession)}
}

func (m *Memory) Get(_ context.Context, sessionID string) (*domain.VerificationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) Put(_ context.Context, s *domain.VerificationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *Memory) Entries(_ context.Context) ([]*domain.VerificationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.VerificationSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		out = append(out, &cp)
	}
	// Oldest session first, so the dev-mode fallback consumes deterministically.
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

// Len reports the number of stored sessions, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
