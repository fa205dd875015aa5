// internal/persist/memory.go
//
// In-memory Store implementation. Used in tests and when durability is not
// required; state is lost when the process exits.

package persist

import (
	"context"
	"sync"

	"github.com/sagaleh/erayle/internal/score"
)

type memory struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	ledgers  map[string]score.Ledger
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		sessions: make(map[string][]byte),
		ledgers:  make(map[string]score.Ledger),
	}
}

func (m *memory) SaveSession(ctx context.Context, playerID string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[playerID] = append([]byte(nil), raw...)
	return nil
}

func (m *memory) LoadSession(ctx context.Context, playerID string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.sessions[playerID]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

func (m *memory) DeleteSession(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, playerID)
	return nil
}

func (m *memory) SaveLedger(ctx context.Context, playerID string, l score.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[playerID] = l
	return nil
}

func (m *memory) LoadLedger(ctx context.Context, playerID string) (score.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledgers[playerID], nil
}
