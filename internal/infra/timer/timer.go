package timer

import (
	"context"
	"log"
	"sync"
	"time"
)

// Manager хранит функции отмены отложенных действий по идентификатору чата.
// Новое действие для того же чата отменяет предыдущее.
type Manager struct {
	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
	wg      sync.WaitGroup
}

func NewManager() *Manager {
	return &Manager{cancels: make(map[int64]context.CancelFunc)}
}

// Schedule выполняет fn через delay, если действие не отменено раньше
func (m *Manager) Schedule(chatID int64, delay time.Duration, fn func()) {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if prev, ok := m.cancels[chatID]; ok {
		prev()
	}
	m.cancels[chatID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			log.Printf("Timer canceled for chat %d", chatID)
			return
		case <-t.C:
		}

		m.mu.Lock()
		// запись могла быть заменена новым действием
		if ctx.Err() != nil {
			m.mu.Unlock()
			return
		}
		delete(m.cancels, chatID)
		m.mu.Unlock()

		fn()
	}()
}

// Cancel отменяет отложенное действие чата
func (m *Manager) Cancel(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.cancels[chatID]
	if ok {
		cancel()
		delete(m.cancels, chatID)
	}
	return ok
}

// Pending число запланированных действий
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}

// Stop отменяет все действия и ждет завершения горутин
func (m *Manager) Stop() {
	m.mu.Lock()
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}
