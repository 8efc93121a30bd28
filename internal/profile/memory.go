package profile

import (
	"context"
	"errors"
	"sync"

	"marboris-intents/internal/models"
)

// MemoryStore keeps profiles in process memory with one lock per active token.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
	locks    *keyedMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.UserProfile),
		locks:    newKeyedMutex(),
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}
	return s.read(token), nil
}

func (s *MemoryStore) Update(ctx context.Context, token string, fn Mutator) (models.UserProfile, error) {
	if token == "" {
		return models.UserProfile{}, ErrEmptyToken
	}

	unlock := s.locks.lock(token)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return models.UserProfile{}, err
	}

	current := s.read(token)
	next, err := fn(current.Clone())
	if errors.Is(err, ErrNoChange) {
		return current, nil
	}
	if err != nil {
		return models.UserProfile{}, err
	}

	next = normalize(next.Clone())
	s.mu.Lock()
	s.profiles[token] = next
	s.mu.Unlock()
	return next.Clone(), nil
}

// Delete waits for any in-flight Update on token.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	unlock := s.locks.lock(token)
	defer unlock()

	s.mu.Lock()
	delete(s.profiles, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) read(token string) models.UserProfile {
	s.mu.RLock()
	p, ok := s.profiles[token]
	s.mu.RUnlock()
	if !ok {
		return models.NewUserProfile()
	}
	return p.Clone()
}

// keyedMutex hands out one mutex per key and drops it once no goroutine holds or waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
