package credential

import (
	"context"
	"sync"
)

// InmemStore forgets the credential when the process exits.
type InmemStore struct {
	token string
	mutex sync.RWMutex
}

func NewInmemStore() *InmemStore {
	return &InmemStore{}
}

func (s *InmemStore) Token(context.Context) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.token, nil
}

func (s *InmemStore) SetToken(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = token
	return nil
}

func (s *InmemStore) ClearToken(context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = ""
	return nil
}
