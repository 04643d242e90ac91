package usage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu         sync.Mutex
	data       map[string]Usage
	quotaBytes int64
}

func newMemoryStore(quotaBytes int64) *memoryStore {
	return &memoryStore{
		data:       make(map[string]Usage),
		quotaBytes: quotaBytes,
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID), nil
}

func (s *memoryStore) Reserve(ctx context.Context, userID string, n int64) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if n <= 0 {
		return u, nil
	}
	if u.UsedBytes+n > u.QuotaBytes {
		return Usage{}, ErrQuotaExceeded
	}
	u.UsedBytes += n
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Release(ctx context.Context, userID string, n int64) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if n > 0 {
		u.UsedBytes -= n
		if u.UsedBytes < 0 {
			u.UsedBytes = 0
		}
		s.data[userID] = u
	}
	return u, nil
}

func (s *memoryStore) ensureLocked(userID string) Usage {
	u, ok := s.data[userID]
	if !ok {
		u = Usage{QuotaBytes: s.quotaBytes}
		s.data[userID] = u
	}
	return u
}
