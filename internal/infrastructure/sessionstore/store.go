// Package sessionstore provides pluggable storage for verification
// sessions. The verifier only sees the Store interface, so the in-memory
// map can be swapped for DynamoDB (or any external store) without touching
// verification logic.
package sessionstore

import (
	"context"

	"github.com/loginus-id/api/internal/domain"
)

// Store is the minimal contract the verification flow requires.
// Implementations must treat sessions as immutable: Put either inserts or
// overwrites wholesale.
type Store interface {
	// Get returns the session or an error wrapping domain.ErrNotFound.
	Get(ctx context.Context, sessionID string) (*domain.VerificationSession, error)
	Put(ctx context.Context, s *domain.VerificationSession) error
	Delete(ctx context.Context, sessionID string) error
	// Entries returns a point-in-time snapshot of all live entries,
	// expired ones included. Used only by the dev-mode fallback scan.
	Entries(ctx context.Context) ([]*domain.VerificationSession, error)
}
