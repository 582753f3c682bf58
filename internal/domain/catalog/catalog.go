package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// StorageKey ключ каталога в хранилище
const StorageKey = "app_quizzes"

var (
	ErrInvalidFormat    = errors.New("invalid quiz file format")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidQuestion  = errors.New("please fill out all fields; the correct answer must be one of the options")
)

// Catalog хранит набор квизов и изменения администратора
type Catalog struct {
	mu        sync.RWMutex
	quizzes   []model.Quiz
	store     database.BlobStore
	listeners []func([]model.Quiz)
	now       func() time.Time
}

// New создает каталог с указанными квизами без хранилища
func New(quizzes []model.Quiz) *Catalog {
	return &Catalog{quizzes: cloneAll(quizzes), now: time.Now}
}

// Load загружает каталог из хранилища. При первом запуске сохраняется базовый каталог.
func Load(store database.BlobStore) (*Catalog, error) {
	c := &Catalog{store: store, now: time.Now}

	var quizzes []model.Quiz
	ok, err := database.LoadJSON(store, StorageKey, &quizzes)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if !ok || Validate(quizzes) != nil {
		quizzes = Default()
		if err := database.SaveJSON(store, StorageKey, quizzes); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	c.quizzes = quizzes
	return c, nil
}

// Quizzes возвращает глубокую копию всех квизов
func (c *Catalog) Quizzes() []model.Quiz {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.quizzes)
}

// Quiz возвращает квиз по id
func (c *Catalog) Quiz(id string) (model.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.quizzes {
		if q.ID == id {
			return q.Clone(), true
		}
	}
	return model.Quiz{}, false
}

// OnChange регистрирует обработчик изменения каталога
func (c *Catalog) OnChange(fn func([]model.Quiz)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// AddQuestion добавляет вопрос в квиз. Id вопроса - текущее время в миллисекундах,
// категория - название квиза.
func (c *Catalog) AddQuestion(quizID string, q model.Question) (model.Question, error) {
	if err := validateQuestion(q); err != nil {
		return model.Question{}, err
	}
	var added model.Question
	err := c.mutate(func(quizzes []model.Quiz) ([]model.Quiz, error) {
		i := indexOf(quizzes, quizID)
		if i < 0 {
			return nil, ErrQuizNotFound
		}
		q.ID = c.nextQuestionID(quizzes)
		q.Category = quizzes[i].Name
		q.Options = append([]string(nil), q.Options...)
		quizzes[i].Questions = append(quizzes[i].Questions, q)
		added = q
		return quizzes, nil
	})
	return added, err
}

// EditQuestion заменяет вопрос с тем же id
func (c *Catalog) EditQuestion(quizID string, q model.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	return c.mutate(func(quizzes []model.Quiz) ([]model.Quiz, error) {
		i := indexOf(quizzes, quizID)
		if i < 0 {
			return nil, ErrQuizNotFound
		}
		for j, existing := range quizzes[i].Questions {
			if existing.ID == q.ID {
				if q.Category == "" {
					q.Category = existing.Category
				}
				q.Options = append([]string(nil), q.Options...)
				quizzes[i].Questions[j] = q
				return quizzes, nil
			}
		}
		return nil, ErrQuestionNotFound
	})
}

// DeleteQuestion удаляет вопрос из квиза
func (c *Catalog) DeleteQuestion(quizID string, questionID int) error {
	return c.mutate(func(quizzes []model.Quiz) ([]model.Quiz, error) {
		i := indexOf(quizzes, quizID)
		if i < 0 {
			return nil, ErrQuizNotFound
		}
		questions := quizzes[i].Questions[:0]
		found := false
		for _, q := range quizzes[i].Questions {
			if q.ID == questionID {
				found = true
				continue
			}
			questions = append(questions, q)
		}
		if !found {
			return nil, ErrQuestionNotFound
		}
		quizzes[i].Questions = questions
		return quizzes, nil
	})
}

// Import заменяет весь каталог
func (c *Catalog) Import(quizzes []model.Quiz) error {
	if err := Validate(quizzes); err != nil {
		return err
	}
	imported := cloneAll(quizzes)
	return c.mutate(func(_ []model.Quiz) ([]model.Quiz, error) {
		return imported, nil
	})
}

// ImportJSON разбирает и импортирует каталог в формате quizzes.json
func (c *Catalog) ImportJSON(data []byte) error {
	var quizzes []model.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return c.Import(quizzes)
}

// ExportJSON возвращает каталог в формате quizzes.json
func (c *Catalog) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(c.Quizzes(), "", "  ")
}

// Validate проверяет, что у каждого квиза есть id, название и список вопросов
func Validate(quizzes []model.Quiz) error {
	if quizzes == nil {
		return ErrInvalidFormat
	}
	seen := make(map[string]bool, len(quizzes))
	for _, q := range quizzes {
		if q.ID == "" || q.Name == "" || q.Questions == nil {
			return ErrInvalidFormat
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate quiz id %q", ErrInvalidFormat, q.ID)
		}
		seen[q.ID] = true
		for _, question := range q.Questions {
			if err := validateQuestion(question); err != nil {
				return fmt.Errorf("%w: quiz %q question %d: %v", ErrInvalidFormat, q.ID, question.ID, err)
			}
		}
	}
	return nil
}

func validateQuestion(q model.Question) error {
	if strings.TrimSpace(q.Question) == "" || q.CorrectAnswer == "" || len(q.Options) == 0 {
		return ErrInvalidQuestion
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return ErrInvalidQuestion
		}
	}
	if !q.HasOption(q.CorrectAnswer) {
		return ErrInvalidQuestion
	}
	return nil
}

// mutate применяет изменение к копии каталога, сохраняет её и уведомляет подписчиков
func (c *Catalog) mutate(fn func([]model.Quiz) ([]model.Quiz, error)) error {
	c.mu.Lock()
	next, err := fn(cloneAll(c.quizzes))
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if c.store != nil {
		if err := database.SaveJSON(c.store, StorageKey, next); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to save catalog: %w", err)
		}
	}
	c.quizzes = next
	listeners := append([]func([]model.Quiz){}, c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(cloneAll(next))
	}
	return nil
}

func (c *Catalog) nextQuestionID(quizzes []model.Quiz) int {
	id := int(c.now().UnixMilli())
	for taken(quizzes, id) {
		id++
	}
	return id
}

func taken(quizzes []model.Quiz, id int) bool {
	for _, q := range quizzes {
		for _, question := range q.Questions {
			if question.ID == id {
				return true
			}
		}
	}
	return false
}

func indexOf(quizzes []model.Quiz, id string) int {
	for i, q := range quizzes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(quizzes []model.Quiz) []model.Quiz {
	if quizzes == nil {
		return nil
	}
	out := make([]model.Quiz, len(quizzes))
	for i, q := range quizzes {
		out[i] = q.Clone()
	}
	return out
}
