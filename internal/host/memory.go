package host

import (
	"context"
	"sync"
)

// MemoryRepository keeps the classifier name in memory.
// It implements ports.ClassifierRepository.
type MemoryRepository struct {
	mu   sync.Mutex
	name string
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load returns the stored name.
func (m *MemoryRepository) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name, nil
}

// Save stores the name.
func (m *MemoryRepository) Save(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	return nil
}
