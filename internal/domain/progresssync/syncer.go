package progresssync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/infra/remote"
	"github.com/google/uuid"
)

// ErrNotFound для пользователя нет сохраненного прогресса
var ErrNotFound = remote.ErrNotFound

// Remote удаленное хранилище прогресса
type Remote interface {
	GetProgress(ctx context.Context, username string) (model.ProgressMap, error)
	SaveProgress(ctx context.Context, username string, m model.ProgressMap) error
	DeleteProgress(ctx context.Context, username string) error
}

// IntentKind тип намерения синхронизации
type IntentKind string

const (
	IntentSave   IntentKind = "save"
	IntentDelete IntentKind = "delete"
)

// Intent запись outbox: сохранить снимок прогресса или удалить его
type Intent struct {
	ID        string
	Kind      IntentKind
	Username  string
	Snapshot  model.ProgressMap
	CreatedAt time.Time

	result chan error // не nil, если вызывающий ждет результата
}

// Syncer зеркалирует прогресс в удаленное хранилище через outbox.
// Намерения обрабатываются одной горутиной в порядке постановки, ошибки логируются и не повторяются.
type Syncer struct {
	remote  Remote
	outbox  chan Intent
	timeout time.Duration

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}

	onProcessed func(Intent, error)
}

// NewSyncer создает Syncer. bufferSize - емкость outbox, timeout - таймаут одного запроса.
func NewSyncer(r Remote, bufferSize int, timeout time.Duration) *Syncer {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Syncer{
		remote:  r,
		outbox:  make(chan Intent, bufferSize),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnProcessed регистрирует обработчик, вызываемый после каждого намерения. Вызывать до Start.
func (s *Syncer) OnProcessed(fn func(Intent, error)) {
	s.onProcessed = fn
}

// Start запускает обработку outbox. Отмена ctx прекращает обработку без дочитывания очереди.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.run(ctx)
}

// Save ставит в очередь сохранение снимка прогресса
func (s *Syncer) Save(username string, m model.ProgressMap) string {
	return s.enqueue(Intent{Kind: IntentSave, Username: username, Snapshot: m.Clone()})
}

// Delete ставит в очередь удаление прогресса
func (s *Syncer) Delete(username string) string {
	return s.enqueue(Intent{Kind: IntentDelete, Username: username})
}

// Purge удаляет прогресс и ждет результата. Удаление выполняется после всех ранее
// поставленных намерений, поэтому Fetch после Purge уже не вернет старый снимок.
// Отсутствие прогресса на сервере ошибкой не считается.
func (s *Syncer) Purge(ctx context.Context, username string) error {
	in := Intent{ID: uuid.NewString(), Kind: IntentDelete, Username: username, CreatedAt: time.Now(), result: make(chan error, 1)}

	s.mu.Lock()
	running := s.started && !s.closed
	s.mu.Unlock()
	if !running {
		err := s.process(in)
		if s.onProcessed != nil {
			s.onProcessed(in, err)
		}
		return err
	}

	s.enqueue(in)
	select {
	case err := <-in.result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("progress delete for %s not confirmed: %w", username, ctx.Err())
	}
}

// Fetch синхронно читает прогресс пользователя. Используется при входе.
func (s *Syncer) Fetch(ctx context.Context, username string) (model.ProgressMap, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.remote.GetProgress(ctx, username)
}

// Close обрабатывает оставшиеся намерения и останавливает горутину
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.outbox)
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.done
	}
}

func (s *Syncer) enqueue(in Intent) string {
	in.ID = uuid.NewString()
	in.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Printf("progress sync: outbox closed, dropping %s for %s", in.Kind, in.Username)
		if in.result != nil {
			in.result <- errors.New("progress sync is closed")
		}
		return in.ID
	}
	s.outbox <- in
	return in.ID
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-s.outbox:
			if !ok {
				return
			}
			err := s.process(in)
			if s.onProcessed != nil {
				s.onProcessed(in, err)
			}
			if in.result != nil {
				in.result <- err
			}
		}
	}
}

func (s *Syncer) process(in Intent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	switch in.Kind {
	case IntentSave:
		err = s.remote.SaveProgress(ctx, in.Username, in.Snapshot)
	case IntentDelete:
		err = s.remote.DeleteProgress(ctx, in.Username)
		if errors.Is(err, ErrNotFound) {
			// удалять нечего, это не ошибка
			err = nil
		}
	}
	if err != nil {
		log.Printf("progress sync: %s for %s failed (intent %s): %v", in.Kind, in.Username, in.ID, err)
	}
	return err
}
