package storage

import (
	"context"
	"sync"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
)

// memoryStateStore fallback (jarayon ish davomida)
type memoryStateStore struct {
	mu       sync.RWMutex
	session  *entity.Session
	username string
	hasUser  bool
	logs     []entity.LogEntry
	logLevel int
	hasLevel bool
}

// NewMemoryStateStore in-memory state store yaratish
func NewMemoryStateStore() repository.StateStore {
	return &memoryStateStore{}
}

func (m *memoryStateStore) SaveSession(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		m.session = nil
		return nil
	}
	cp := *session
	m.session = &cp
	return nil
}

func (m *memoryStateStore) LoadSession(_ context.Context) (*entity.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, false, nil
	}
	cp := *m.session
	return &cp, true, nil
}

func (m *memoryStateStore) ClearSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *memoryStateStore) SaveUsername(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username = username
	m.hasUser = true
	return nil
}

func (m *memoryStateStore) LoadUsername(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username, m.hasUser, nil
}

func (m *memoryStateStore) AppendLog(_ context.Context, entry entity.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	if len(m.logs) > constants.MaxLogEntries {
		m.logs = m.logs[len(m.logs)-constants.MaxLogEntries:]
	}
	return nil
}

func (m *memoryStateStore) ListLogs(_ context.Context) ([]entity.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.LogEntry, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

func (m *memoryStateStore) ClearLogs(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = nil
	return nil
}

func (m *memoryStateStore) SaveLogLevel(_ context.Context, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logLevel = level
	m.hasLevel = true
	return nil
}

func (m *memoryStateStore) LoadLogLevel(_ context.Context) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logLevel, m.hasLevel, nil
}
