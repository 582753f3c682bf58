package questions_handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/infra/export"
	"gopkg.in/telebot.v4"
)

// maxImportSize ограничение на размер импортируемого файла
const maxImportSize = 5 << 20

var errUsage = errors.New("invalid arguments")

// QuestionsHandler команды управления каталогом вопросов
type QuestionsHandler struct {
	catalog *catalog.Catalog
}

// NewQuestionsHandler возвращает структуру обработчика
func NewQuestionsHandler(catalog *catalog.Catalog) *QuestionsHandler {
	return &QuestionsHandler{catalog: catalog}
}

// List /questions [search]
func (h *QuestionsHandler) List(c telebot.Context) error {
	return screens.SendLong(c, FormatQuestions(h.catalog.Quizzes(), c.Message().Payload))
}

// Add /add_question quizId|question|opt1;opt2;...|correct
func (h *QuestionsHandler) Add(c telebot.Context) error {
	quizID, q, err := ParseQuestion(c.Message().Payload, false)
	if err != nil {
		return c.Send("Usage: /add_question quizId|question|opt1;opt2;...|correct")
	}
	added, err := h.catalog.AddQuestion(quizID, q)
	if err != nil {
		return c.Send(err.Error())
	}
	return c.Send(fmt.Sprintf("Question added successfully! (id %d)", added.ID))
}

// Edit /edit_question quizId|questionId|question|opt1;opt2;...|correct
func (h *QuestionsHandler) Edit(c telebot.Context) error {
	quizID, q, err := ParseQuestion(c.Message().Payload, true)
	if err != nil {
		return c.Send("Usage: /edit_question quizId|questionId|question|opt1;opt2;...|correct")
	}
	if err := h.catalog.EditQuestion(quizID, q); err != nil {
		return c.Send(err.Error())
	}
	return c.Send("Question updated successfully!")
}

// Delete /delete_question <quizId> <questionId>
func (h *QuestionsHandler) Delete(c telebot.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /delete_question <quizId> <questionId>")
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return c.Send("Question id must be a number.")
	}
	if err := h.catalog.DeleteQuestion(args[0], id); err != nil {
		return c.Send(err.Error())
	}
	return c.Send("Question deleted.")
}

// ExportJSON /export_quizzes
func (h *QuestionsHandler) ExportJSON(c telebot.Context) error {
	data, err := h.catalog.ExportJSON()
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to export quizzes: %v", err))
	}
	return c.Send(&telebot.Document{File: telebot.FromReader(bytes.NewReader(data)), FileName: "quizzes.json"})
}

// ExportXLSX /export_quizzes_xlsx
func (h *QuestionsHandler) ExportXLSX(c telebot.Context) error {
	data, err := export.QuizzesXLSX(h.catalog.Quizzes())
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to export quizzes: %v", err))
	}
	return c.Send(&telebot.Document{File: telebot.FromReader(bytes.NewReader(data)), FileName: "quizzes.xlsx"})
}

// Import загрузка .json или .xlsx заменяет каталог целиком
func (h *QuestionsHandler) Import(c telebot.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	if doc.FileSize > maxImportSize {
		return c.Send("File is too large.")
	}

	rc, err := c.Bot().File(&doc.File)
	if err != nil {
		log.Printf("failed to download %s: %v", doc.FileName, err)
		return c.Send("Failed to import quizzes. Check file format.")
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxImportSize))
	if err != nil {
		return c.Send("Failed to import quizzes. Check file format.")
	}

	if err := h.importData(doc.FileName, data); err != nil {
		log.Printf("Failed to import quizzes: %v", err)
		return c.Send(fmt.Sprintf("Failed to import quizzes. Check file format. (%v)", err))
	}
	return c.Send(fmt.Sprintf("Imported %d quizzes.", len(h.catalog.Quizzes())))
}

func (h *QuestionsHandler) importData(filename string, data []byte) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return h.catalog.ImportJSON(data)
	case ".xlsx":
		quizzes, err := export.ParseQuizzesXLSX(bytes.NewReader(data))
		if err != nil {
			return err
		}
		return h.catalog.Import(quizzes)
	}
	return fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
}

// ParseQuestion разбирает аргументы команд добавления и редактирования вопроса
func ParseQuestion(payload string, withID bool) (string, model.Question, error) {
	parts := strings.Split(payload, "|")
	want := 4
	if withID {
		want = 5
	}
	if len(parts) != want {
		return "", model.Question{}, errUsage
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	quizID := parts[0]
	var q model.Question
	if withID {
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", model.Question{}, errUsage
		}
		q.ID = id
		parts = append(parts[:1], parts[2:]...)
	}
	q.Question = parts[1]
	for _, o := range strings.Split(parts[2], ";") {
		if o = strings.TrimSpace(o); o != "" {
			q.Options = append(q.Options, o)
		}
	}
	q.CorrectAnswer = parts[3]
	return quizID, q, nil
}

// FormatQuestions вопросы каталога с фильтром по тексту вопроса
func FormatQuestions(quizzes []model.Quiz, term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	var b strings.Builder
	found := 0
	for _, quiz := range quizzes {
		var lines []string
		for _, q := range quiz.Questions {
			if term != "" && !strings.Contains(strings.ToLower(q.Question), term) {
				continue
			}
			lines = append(lines, fmt.Sprintf("#%d %s\n  Options: %s\n  Correct Answer: %s", q.ID, q.Question, strings.Join(q.Options, "; "), q.CorrectAnswer))
		}
		if term != "" && len(lines) == 0 {
			continue
		}
		found += len(lines)
		fmt.Fprintf(&b, "%s [%s]\n", quiz.Name, quiz.ID)
		for _, l := range lines {
			b.WriteString(l + "\n")
		}
		b.WriteString("\n")
	}
	if term != "" && found == 0 {
		return "No questions match your search."
	}
	if b.Len() == 0 {
		return "The catalog is empty."
	}
	return strings.TrimRight(b.String(), "\n")
}
