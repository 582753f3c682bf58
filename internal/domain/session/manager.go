package session

import (
	"fmt"
	"sync"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// Manager хранит по одной сессии на чат
type Manager struct {
	deps Dependencies

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager создает Manager
func NewManager(deps Dependencies) *Manager {
	return &Manager{deps: deps, sessions: make(map[int64]*Session)}
}

// Get возвращает сессию чата, создавая ее при первом обращении
func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		s = NewSession(m.deps)
		m.sessions[chatID] = s
	}
	return s
}

// Drop удаляет сессию чата
func (m *Manager) Drop(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// OnCatalogChange пересчитывает прогресс всех сессий под новый каталог
func (m *Manager) OnCatalogChange(_ []model.Quiz) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Reconcile()
	}
}

// Describe краткое описание состояния чата для отладки
func (m *Manager) Describe(chatID int64) string {
	m.mu.Lock()
	s, ok := m.sessions[chatID]
	m.mu.Unlock()
	if !ok {
		return string(StateLogin)
	}
	v := s.View()
	if v.User == nil {
		return string(v.State)
	}
	return fmt.Sprintf("%s (%s)", v.State, v.User.Username)
}
