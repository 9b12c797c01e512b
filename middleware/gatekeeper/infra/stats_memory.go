package infra

import (
	"context"
	"sync"

	"bot-gatekeeper/middleware/gatekeeper/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byStage map[domain.Stage]Counters
	byUser  map[int64]Counters

	trackUsers bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackUsers(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackUsers = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byStage: make(map[domain.Stage]Counters),
		byUser:  make(map[int64]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Allowed {
		s.total.Allowed++
		c := s.byStage[ev.Stage]
		c.Allowed++
		s.byStage[ev.Stage] = c
		if s.trackUsers {
			u := s.byUser[ev.UserID]
			u.Allowed++
			s.byUser[ev.UserID] = u
		}
		return nil
	}

	s.total.Denied++
	c := s.byStage[ev.Stage]
	c.Denied++
	s.byStage[ev.Stage] = c
	if s.trackUsers {
		u := s.byUser[ev.UserID]
		u.Denied++
		s.byUser[ev.UserID] = u
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByStage() map[domain.Stage]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Stage]Counters, len(s.byStage))
	for k, v := range s.byStage {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByUser() map[int64]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]Counters, len(s.byUser))
	for k, v := range s.byUser {
		out[k] = v
	}
	return out
}
