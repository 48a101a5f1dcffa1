package store

import (
	"sync"

	"tcw-alerts/internal/alert"
)

// Memory is a mutex-guarded in-memory Store. It backs tests and deployments
// that do not care about alerts surviving a restart.
type Memory struct {
	mu     sync.RWMutex
	alerts map[string]alert.Alert
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{alerts: make(map[string]alert.Alert)}
}

func (m *Memory) ListAll() ([]alert.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]alert.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (m *Memory) Insert(a alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.alerts[a.ID]; exists {
		return ErrDuplicateID
	}
	m.alerts[a.ID] = a
	return nil
}

func (m *Memory) DeleteByIDs(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.alerts, id)
	}
	return nil
}

func (m *Memory) ReplaceAll(alerts []alert.Alert) error {
	next := make(map[string]alert.Alert, len(alerts))
	for _, a := range alerts {
		next[a.ID] = a
	}

	m.mu.Lock()
	m.alerts = next
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
