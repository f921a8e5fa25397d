package memory

import (
	"sync"

	"github.com/qubic/go-transfers-trigger/entities"
)

// Store keeps the last transfers response per identity in memory. Lost on restart.
type Store struct {
	mutex     sync.RWMutex
	snapshots map[string]*entities.TransferResponse
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string]*entities.TransferResponse)}
}

func (s *Store) GetSnapshot(identity string) (*entities.TransferResponse, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	snapshot, ok := s.snapshots[identity]
	if !ok {
		return nil, entities.ErrStoreEntityNotFound
	}
	return snapshot, nil
}

func (s *Store) SetSnapshot(identity string, response *entities.TransferResponse) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snapshots[identity] = response
	return nil
}
