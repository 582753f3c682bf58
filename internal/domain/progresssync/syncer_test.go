package progresssync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/infra/remote"
)

func entry(score int) model.ProgressMap {
	return model.ProgressMap{"a": {Status: model.StatusInProgress, Score: score, Total: 3, UserAnswers: []model.UserAnswer{}}}
}

// TestSyncer_FIFO проверяет, что последняя запись и удаление применяются в порядке постановки.
func TestSyncer_FIFO(t *testing.T) {
	mem := remote.NewMemory()
	s := NewSyncer(mem, 16, time.Second)

	var mu sync.Mutex
	var kinds []IntentKind
	s.OnProcessed(func(in Intent, err error) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, in.Kind)
		if err != nil {
			t.Errorf("намерение %s завершилось ошибкой: %v", in.Kind, err)
		}
	})
	s.Start(context.Background())

	s.Save("Alice", entry(1))
	s.Save("Alice", entry(2))
	s.Close()

	got, err := mem.GetProgress(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetProgress вернул ошибку: %v", err)
	}
	if got["a"].Score != 2 {
		t.Errorf("ожидался последний снимок со счетом 2, получено %d", got["a"].Score)
	}
	if len(kinds) != 2 {
		t.Errorf("ожидалось 2 обработанных намерения, получено %d", len(kinds))
	}
}

// TestSyncer_DeleteAfterSave проверяет, что удаление после сохранения оставляет хранилище пустым.
func TestSyncer_DeleteAfterSave(t *testing.T) {
	mem := remote.NewMemory()
	s := NewSyncer(mem, 16, time.Second)
	s.Start(context.Background())

	s.Save("bob", entry(1))
	s.Delete("bob")
	// повторное удаление отсутствующего прогресса не ошибка
	s.Delete("bob")
	s.Close()

	if _, err := mem.GetProgress(context.Background(), "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

// TestSyncer_FailureIsAbsorbed проверяет, что ошибка удаленного хранилища не повторяется.
func TestSyncer_FailureIsAbsorbed(t *testing.T) {
	mem := remote.NewMemory()
	mem.SetFailures(nil, errors.New("network down"))
	s := NewSyncer(mem, 16, time.Second)

	var failures int
	s.OnProcessed(func(_ Intent, err error) {
		if err != nil {
			failures++
		}
	})
	s.Start(context.Background())
	s.Save("carol", entry(1))
	s.Close()

	if failures != 1 {
		t.Errorf("ожидалась одна неудачная попытка, получено %d", failures)
	}
}

// TestSyncer_SnapshotIsCopied проверяет, что изменение карты после Save не влияет на очередь.
func TestSyncer_SnapshotIsCopied(t *testing.T) {
	mem := remote.NewMemory()
	s := NewSyncer(mem, 16, time.Second)

	m := entry(1)
	s.Save("dave", m)
	m["a"] = model.ProgressEntry{Score: 99}

	s.Start(context.Background())
	s.Close()

	got, err := mem.GetProgress(context.Background(), "dave")
	if err != nil {
		t.Fatalf("GetProgress вернул ошибку: %v", err)
	}
	if got["a"].Score != 1 {
		t.Errorf("в хранилище попал измененный снимок: %+v", got["a"])
	}
}

// TestSyncer_EnqueueAfterClose проверяет, что постановка после Close не паникует.
func TestSyncer_EnqueueAfterClose(t *testing.T) {
	s := NewSyncer(remote.NewMemory(), 1, time.Second)
	s.Close()
	if id := s.Save("eve", entry(1)); id == "" {
		t.Errorf("ожидался id намерения")
	}
}

// slowRemote отвечает с задержкой, как медленный сервер
type slowRemote struct {
	*remote.Memory
	delay time.Duration
}

func (r *slowRemote) wait(ctx context.Context) error {
	select {
	case <-time.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *slowRemote) SaveProgress(ctx context.Context, username string, p model.ProgressMap) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.Memory.SaveProgress(ctx, username, p)
}

func (r *slowRemote) DeleteProgress(ctx context.Context, username string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.Memory.DeleteProgress(ctx, username)
}

// TestSyncer_PurgeWaitsForQueue проверяет, что Purge возвращается только после
// обработки ранее поставленного сохранения и самого удаления.
func TestSyncer_PurgeWaitsForQueue(t *testing.T) {
	slow := &slowRemote{Memory: remote.NewMemory(), delay: 200 * time.Millisecond}
	s := NewSyncer(slow, 16, time.Second)
	s.Start(context.Background())
	defer s.Close()

	s.Save("alice", entry(3))
	if err := s.Purge(context.Background(), "alice"); err != nil {
		t.Fatalf("Purge вернул ошибку: %v", err)
	}
	if _, err := s.Fetch(context.Background(), "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("после Purge прогресса быть не должно, получено %v", err)
	}
}

// TestSyncer_PurgeMissingIsOK проверяет, что удаление отсутствующего прогресса успешно.
func TestSyncer_PurgeMissingIsOK(t *testing.T) {
	s := NewSyncer(remote.NewMemory(), 16, time.Second)
	// без Start удаление выполняется сразу
	if err := s.Purge(context.Background(), "nobody"); err != nil {
		t.Errorf("ожидался nil, получено %v", err)
	}

	s.Start(context.Background())
	defer s.Close()
	if err := s.Purge(context.Background(), "nobody"); err != nil {
		t.Errorf("ожидался nil, получено %v", err)
	}
}

// TestSyncer_PurgeReportsFailure проверяет, что ошибка сервера и таймаут возвращаются вызывающему.
func TestSyncer_PurgeReportsFailure(t *testing.T) {
	mem := remote.NewMemory()
	mem.SetFailures(nil, errors.New("network down"))
	s := NewSyncer(mem, 16, time.Second)
	s.Start(context.Background())
	defer s.Close()

	if err := s.Purge(context.Background(), "bob"); err == nil {
		t.Errorf("ожидалась ошибка сервера")
	}

	slow := &slowRemote{Memory: remote.NewMemory(), delay: time.Second}
	s2 := NewSyncer(slow, 16, 2*time.Second)
	s2.Start(context.Background())
	defer s2.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s2.Purge(ctx, "bob"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ожидался DeadlineExceeded, получено %v", err)
	}
}
