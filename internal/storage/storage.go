package storage

import (
	"errors"
	"sync"
)

const maxEntities = 1000

var (
	// ErrInvalidPopulations indicates the provided population series violates validation rules.
	ErrInvalidPopulations = errors.New("populations must contain between 1 and 1000 non-negative values")
)

var defaultPopulations = []int64{1, 10, 100, 500}

// Storage provides access to the population series used by the apportioner.
// Order is significant: entities are identified by their position, so the
// series is stored and returned verbatim, never sorted or deduplicated.
type Storage interface {
	GetPopulations() ([]int64, error)
	SetPopulations(populations []int64) error
}

// MemoryStorage keeps the population series in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu          sync.RWMutex
	populations []int64
}

// NewMemoryStorage initialises storage with a copy of the default populations.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		populations: clonePopulations(defaultPopulations),
	}
}

// DefaultPopulations returns a copy of the default population series.
func DefaultPopulations() []int64 {
	return clonePopulations(defaultPopulations)
}

// GetPopulations returns a defensive copy of the currently configured series.
func (s *MemoryStorage) GetPopulations() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePopulations(s.populations), nil
}

// SetPopulations validates and stores the provided series.
func (s *MemoryStorage) SetPopulations(populations []int64) error {
	if err := validatePopulations(populations); err != nil {
		return err
	}

	s.mu.Lock()
	s.populations = clonePopulations(populations)
	s.mu.Unlock()

	return nil
}

func clonePopulations(src []int64) []int64 {
	if len(src) == 0 {
		return []int64{}
	}

	out := make([]int64, len(src))
	copy(out, src)
	return out
}

func validatePopulations(populations []int64) error {
	if len(populations) == 0 || len(populations) > maxEntities {
		return ErrInvalidPopulations
	}
	for _, p := range populations {
		if p < 0 {
			return ErrInvalidPopulations
		}
	}
	return nil
}
