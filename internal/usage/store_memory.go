package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Profile
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]Profile)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	s.mu.RLock()
	p, ok := s.data[userID]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}
	return s.ensure(userID), nil
}

func (s *memoryStore) Increment(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[userID]
	if !ok {
		p = defaultProfile(userID)
	}
	p.AnalysesUsed++
	p.UpdatedAt = time.Now().UTC()
	s.data[userID] = p
	return p, nil
}

func (s *memoryStore) SetPlan(ctx context.Context, userID, planID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[userID]
	if !ok {
		p = defaultProfile(userID)
	}
	p.PlanID = PlanByID(planID).ID
	p.UpdatedAt = time.Now().UTC()
	s.data[userID] = p
	return p, nil
}

func (s *memoryStore) ensure(userID string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data[userID]; ok {
		return p
	}
	p := defaultProfile(userID)
	s.data[userID] = p
	return p
}
