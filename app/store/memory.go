package store

import (
	"context"
	"sync"

	"tareas-go/app/models"
)

// Memory is a map-backed Store used by tests and by the "memory" driver.
type Memory struct {
	mu    sync.RWMutex
	rows  map[int64]models.Task
	order []int64
	next  int64
}

// NewMemory returns an empty Memory store numbering from 1.
func NewMemory() *Memory {
	return &Memory{rows: make(map[int64]models.Task), next: 1}
}

// Reset discards every row and restarts numbering at 1.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[int64]models.Task)
	m.order = nil
	m.next = 1
	return nil
}

// Insert appends a row under the next number.
func (m *Memory) Insert(ctx context.Context, descripcion, conversationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.next
	m.next++
	m.rows[n] = models.Task{NumeroTarea: n, Descripcion: descripcion, ConversationID: conversationID}
	m.order = append(m.order, n)
	return n, nil
}

// UpdateDescription replaces a row's description, returning 0 when absent.
func (m *Memory) UpdateDescription(ctx context.Context, numeroTarea int64, descripcion string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[numeroTarea]
	if !ok {
		return 0, nil
	}
	t.Descripcion = descripcion
	m.rows[numeroTarea] = t
	return 1, nil
}

// All returns the rows in insertion order.
func (m *Memory) All(ctx context.Context) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Task, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.rows[n])
	}
	return out, nil
}

// Get returns the row for numeroTarea, if any.
func (m *Memory) Get(ctx context.Context, numeroTarea int64) (models.Task, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.rows[numeroTarea]
	return t, ok, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
