package authflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/loginus-id/api/internal/domain"
)

const cacheTTL = 5 * time.Second

// Archiver stores a snapshot of the previous config revision before an
// update overwrites it. Satisfied by the S3 archive; nil disables archival.
type Archiver interface {
	Snapshot(ctx context.Context, takenAt time.Time, data []byte) (string, error)
}

type Service interface {
	// Get returns the current configuration, cached for 5 seconds.
	Get(ctx context.Context) (*domain.AuthFlowConfig, error)
	// Update partitions the flat method list by flow, persists the whole
	// object, and invalidates the cache.
	Update(ctx context.Context, methods []domain.MethodDescriptor) (*domain.AuthFlowConfig, error)
	// Test partitions and validates without persisting.
	Test(methods []domain.MethodDescriptor) (*domain.AuthFlowConfig, error)
}

type service struct {
	store   *FileStore
	archive Archiver
	now     func() time.Time

	mu        sync.Mutex
	cached    *domain.AuthFlowConfig
	fetchedAt time.Time
}

func NewService(store *FileStore, archive Archiver, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{store: store, archive: archive, now: now}
}

func (s *service) Get(ctx context.Context) (*domain.AuthFlowConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.fetchedAt) < cacheTTL {
		return s.cached, nil
	}

	cfg, err := s.store.Load()
	if err != nil {
		// Serve defaults but surface the degradation in the logs; the
		// caller still gets a usable (empty) configuration.
		slog.Warn("auth-flow config load degraded to defaults", "err", err)
	}
	s.cached = cfg
	s.fetchedAt = s.now()
	return cfg, nil
}

func (s *service) Update(ctx context.Context, methods []domain.MethodDescriptor) (*domain.AuthFlowConfig, error) {
	cfg, err := partition(methods)
	if err != nil {
		return nil, err
	}
	cfg.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.archivePrevious(ctx)

	if err := s.store.Save(cfg); err != nil {
		return nil, err
	}
	s.cached = cfg
	s.fetchedAt = s.now()
	return cfg, nil
}

func (s *service) Test(methods []domain.MethodDescriptor) (*domain.AuthFlowConfig, error) {
	cfg, err := partition(methods)
	if err != nil {
		return nil, err
	}
	cfg.UpdatedAt = s.now().UTC()
	return cfg, nil
}

// archivePrevious best-effort snapshots the revision about to be
// overwritten. Failures only log; updates never block on the archive.
func (s *service) archivePrevious(ctx context.Context) {
	if s.archive == nil {
		return
	}
	prev, err := s.store.Load()
	if err != nil {
		slog.Warn("skipping config archive, previous revision unreadable", "err", err)
		return
	}
	data, err := json.Marshal(prev)
	if err != nil {
		slog.Warn("skipping config archive, marshal failed", "err", err)
		return
	}
	if _, err := s.archive.Snapshot(ctx, s.now(), data); err != nil {
		slog.Warn("config archive upload failed", "err", err)
	}
}

// partition splits a flat method list into the three flow buckets,
// preserving input order, and rejects duplicate ids within a flow.
func partition(methods []domain.MethodDescriptor) (*domain.AuthFlowConfig, error) {
	cfg := domain.DefaultAuthFlowConfig()
	seen := map[string]map[string]bool{
		domain.FlowLogin:        {},
		domain.FlowRegistration: {},
		domain.FlowFactors:      {},
	}
	for _, m := range methods {
		ids, ok := seen[m.Flow]
		if !ok {
			return nil, fmt.Errorf("unknown flow %q for method %q: %w", m.Flow, m.ID, domain.ErrBadRequest)
		}
		if ids[m.ID] {
			return nil, fmt.Errorf("duplicate method id %q in flow %q: %w", m.ID, m.Flow, domain.ErrBadRequest)
		}
		ids[m.ID] = true
		switch m.Flow {
		case domain.FlowLogin:
			cfg.Login = append(cfg.Login, m)
		case domain.FlowRegistration:
			cfg.Registration = append(cfg.Registration, m)
		case domain.FlowFactors:
			cfg.Factors = append(cfg.Factors, m)
		}
	}
	return cfg, nil
}
