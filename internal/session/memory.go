package session

import (
	"sync"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

// MemoryStore holds encounters in a per-process map. Sessions do not
// survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uint]*game.CombatState
	locks    map[uint]*sync.Mutex
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uint]*game.CombatState),
		locks:    make(map[uint]*sync.Mutex),
	}
}

func (m *MemoryStore) Start(accountID uint, st *game.CombatState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[accountID]; ok {
		return ErrSessionExists
	}
	m.sessions[accountID] = st
	return nil
}

func (m *MemoryStore) Get(accountID uint) (*game.CombatState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[accountID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return st, nil
}

func (m *MemoryStore) Save(accountID uint, st *game.CombatState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[accountID] = st
	return nil
}

func (m *MemoryStore) Clear(accountID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accountID)
	return nil
}

// WithLock runs fn while holding the account's turn lock. The lock outlives
// the session so a Start racing a Clear still serializes.
func (m *MemoryStore) WithLock(accountID uint, fn func() error) error {
	m.mu.Lock()
	l, ok := m.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[accountID] = l
	}
	m.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn()
}
