package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet в файле нет строк с вопросами
var ErrEmptySheet = errors.New("spreadsheet has no question rows")

var quizHeaders = []string{"Quiz ID", "Quiz Name", "Question ID", "Question", "Correct Answer"}

// ReportsXLSX выгружает отчеты в xlsx: имя, логин, итог, дата и процент по каждому квизу
func ReportsXLSX(reports []model.TrainingReport, quizzes []model.Quiz) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"User Name", "Username", "Status", "Submission Date"}
	for _, q := range quizzes {
		header = append(header, q.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range reports {
		var user model.ReportUser
		if r.User != nil {
			user = *r.User
		}
		row := []interface{}{user.FullName, user.Username, dashboard.ResultLabel(r.OverallResult), dashboard.CompletionDate(r)}
		for _, q := range quizzes {
			entry, ok := r.QuizProgress[q.ID]
			if !ok {
				row = append(row, progress.QuizNotTaken)
				continue
			}
			row = append(row, fmt.Sprintf("%d/%d (%d%%)", entry.Score, entry.Total, progress.QuizPercentage(entry)))
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 24); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	return toBytes(f)
}

// QuizzesXLSX выгружает каталог: одна строка на вопрос, варианты в колонках после правильного ответа
func QuizzesXLSX(quizzes []model.Quiz) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, 0, len(quizHeaders)+4)
	for _, h := range quizHeaders {
		header = append(header, h)
	}
	maxOptions := 0
	for _, q := range quizzes {
		for _, question := range q.Questions {
			if len(question.Options) > maxOptions {
				maxOptions = len(question.Options)
			}
		}
	}
	for i := 1; i <= maxOptions; i++ {
		header = append(header, fmt.Sprintf("Option %d", i))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	rowNum := 2
	for _, q := range quizzes {
		for _, question := range q.Questions {
			row := []interface{}{q.ID, q.Name, strconv.Itoa(question.ID), question.Question, question.CorrectAnswer}
			for _, o := range question.Options {
				row = append(row, o)
			}
			if err := writeRow(f, sheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}
	return toBytes(f)
}

// ParseQuizzesXLSX читает каталог из xlsx в формате QuizzesXLSX. Порядок квизов и вопросов сохраняется.
// Вопросы без id получают следующий свободный номер.
func ParseQuizzesXLSX(r io.Reader) ([]model.Quiz, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	var quizzes []model.Quiz
	index := make(map[string]int)
	var pending []*model.Question
	maxID := 0

	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		if len(row) < len(quizHeaders)+1 {
			return nil, fmt.Errorf("row %d: expected quiz id, name, question, correct answer and options", i+1)
		}
		quizID := strings.TrimSpace(row[0])
		quizName := strings.TrimSpace(row[1])
		if quizID == "" || quizName == "" {
			return nil, fmt.Errorf("row %d: quiz id and name are required", i+1)
		}

		question := model.Question{
			Category:      quizName,
			Question:      strings.TrimSpace(row[3]),
			CorrectAnswer: strings.TrimSpace(row[4]),
		}
		for _, o := range row[len(quizHeaders):] {
			if o = strings.TrimSpace(o); o != "" {
				question.Options = append(question.Options, o)
			}
		}

		qi, ok := index[quizID]
		if !ok {
			qi = len(quizzes)
			index[quizID] = qi
			quizzes = append(quizzes, model.Quiz{ID: quizID, Name: quizName, Questions: []model.Question{}})
		}

		if raw := strings.TrimSpace(row[2]); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid question id %q", i+1, raw)
			}
			question.ID = id
			if id > maxID {
				maxID = id
			}
		}
		quizzes[qi].Questions = append(quizzes[qi].Questions, question)
	}
	if len(quizzes) == 0 {
		return nil, ErrEmptySheet
	}

	for qi := range quizzes {
		for j := range quizzes[qi].Questions {
			if quizzes[qi].Questions[j].ID == 0 {
				pending = append(pending, &quizzes[qi].Questions[j])
			}
		}
	}
	for _, q := range pending {
		maxID++
		q.ID = maxID
	}
	return quizzes, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
