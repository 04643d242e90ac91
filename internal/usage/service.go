package usage

import "context"

type store interface {
	Get(ctx context.Context, userID string) (Usage, error)
	Reserve(ctx context.Context, userID string, n int64) (Usage, error)
	Release(ctx context.Context, userID string, n int64) (Usage, error)
}

// Service tracks per-user storage consumption via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(quotaBytes int64) *Service {
	return &Service{store: newMemoryStore(quotaBytes)}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current usage snapshot, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.store.Get(ctx, userID)
}

// Reserve claims n bytes of the user's quota. Returns ErrQuotaExceeded
// when the reservation would overrun the allowance.
func (s *Service) Reserve(ctx context.Context, userID string, n int64) error {
	_, err := s.store.Reserve(ctx, userID, n)
	return err
}

// Release returns n bytes to the user's quota after a delete.
func (s *Service) Release(ctx context.Context, userID string, n int64) error {
	_, err := s.store.Release(ctx, userID, n)
	return err
}
