package screens

import (
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// Unique-идентификаторы inline-кнопок
const (
	BtnQuiz    = "quiz"
	BtnAnswer  = "answer"
	BtnNext    = "next"
	BtnHub     = "hub"
	BtnReport  = "report"
	BtnSubmit  = "submit"
	BtnAck     = "ack"
	BtnLogout  = "logout"
	BtnRefresh = "refresh"
)

// Screen текст сообщения и клавиатура
type Screen struct {
	Text   string
	Markup *telebot.ReplyMarkup
}

// Show отправляет экран. Для callback редактирует исходное сообщение,
// при неудаче отправляет новое.
func Show(c telebot.Context, s Screen) error {
	opts := []interface{}{telebot.ModeHTML}
	if s.Markup != nil {
		opts = append(opts, s.Markup)
	}
	if c.Callback() != nil && c.Message() != nil {
		if err := c.Edit(s.Text, opts...); err == nil {
			return nil
		}
	}
	return c.Send(s.Text, opts...)
}

// Alert отвечает на callback всплывающим сообщением или обычным сообщением для команд
func Alert(c telebot.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// ForView экран для текущего состояния сессии
func ForView(v session.View) Screen {
	switch v.State {
	case session.StateHub:
		return Hub(v, "")
	case session.StateRunning:
		if _, ok := v.CurrentQuestion(); !ok {
			return Unavailable()
		}
		return Question(v)
	case session.StateFinished:
		return Finished(v)
	case session.StateReport:
		return Report(v)
	case session.StatePostSubmission:
		return PostSubmission(v)
	}
	return Login("")
}

// Login экран входа
func Login(notice string) Screen {
	var b strings.Builder
	b.WriteString("<b>IT Security Policy Training</b>\n")
	b.WriteString("User Login\n\n")
	if notice != "" {
		b.WriteString(html.EscapeString(notice) + "\n\n")
	}
	b.WriteString("Please enter your credentials to continue.\n")
	b.WriteString("Send <code>/login &lt;username&gt; &lt;password&gt;</code>")
	return Screen{Text: b.String()}
}

// Hub главный экран со списком модулей
func Hub(v session.View, notice string) Screen {
	var b strings.Builder
	name := ""
	if v.User != nil {
		name = v.User.FullName
	}
	fmt.Fprintf(&b, "<b>Welcome, %s!</b>\n", html.EscapeString(name))
	if notice != "" {
		b.WriteString(html.EscapeString(notice) + "\n")
	}
	b.WriteString("\n<b>Training Overview</b>\n")

	completed := 0
	for _, q := range v.Quizzes {
		if v.Progress[q.ID].Status == model.StatusCompleted {
			completed++
		}
	}
	fmt.Fprintf(&b, "Modules Completed: %d / %d\n", completed, len(v.Quizzes))
	fmt.Fprintf(&b, "Modules Remaining: %d\n\n", len(v.Quizzes)-completed)

	b.WriteString("<b>Training Modules</b>\n")
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for _, q := range v.Quizzes {
		entry := v.Progress[q.ID]
		fmt.Fprintf(&b, "%s %s: %s\n", statusIcon(entry.Status), html.EscapeString(q.Name), statusLabel(entry))
		rows = append(rows, markup.Row(markup.Data(buttonLabel(q, entry), BtnQuiz, q.ID)))
	}

	if v.AllCompleted {
		b.WriteString("\nAll Modules Done! You're ready to generate your final report.")
		rows = append(rows, markup.Row(markup.Data("Generate Report", BtnReport)))
	} else {
		b.WriteString("\nComplete all modules to unlock your final report.")
	}
	rows = append(rows, markup.Row(markup.Data("Logout", BtnLogout)))
	markup.Inline(rows...)
	return Screen{Text: b.String(), Markup: markup}
}

// Question экран текущего вопроса
func Question(v session.View) Screen {
	question, _ := v.CurrentQuestion()
	total := len(v.ActiveQuiz.Questions)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(v.ActiveQuiz.Name))
	fmt.Fprintf(&b, "Question %d of %d\n\n", v.QuestionIndex+1, total)
	b.WriteString(html.EscapeString(question.Question) + "\n\n")
	b.WriteString("<i>Select the correct answer</i>")

	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for i, option := range question.Options {
		label := option
		if option == v.Selected {
			label = "✅ " + option
		}
		rows = append(rows, markup.Row(markup.Data(label, BtnAnswer, strconv.Itoa(i))))
	}
	if v.Selected != "" {
		next := "Next Question"
		if v.QuestionIndex+1 >= total {
			next = "Finish Quiz"
		}
		rows = append(rows, markup.Row(markup.Data(next, BtnNext)))
	}
	markup.Inline(rows...)
	return Screen{Text: b.String(), Markup: markup}
}

// Unavailable экран для отсутствующего или пустого квиза
func Unavailable() Screen {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Return to Dashboard", BtnHub)))
	return Screen{
		Text:   "<b>Error Loading Quiz</b>\n\n" + html.EscapeString(session.ErrQuizUnavailable.Error()),
		Markup: markup,
	}
}

// Finished итог только что пройденного квиза
func Finished(v session.View) Screen {
	var b strings.Builder
	name := v.ActiveQuizID
	if v.ActiveQuiz != nil {
		name = v.ActiveQuiz.Name
	}
	entry := v.Progress[v.ActiveQuizID]
	fmt.Fprintf(&b, "<b>%s</b>\n\n", html.EscapeString(name))
	if progress.QuizPassed(entry) {
		b.WriteString("Passed ✅\n")
	} else {
		b.WriteString("Failed ❌\n")
	}
	fmt.Fprintf(&b, "Score: %d/%d (%d%%)", entry.Score, entry.Total, progress.QuizPercentage(entry))

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Return to Dashboard", BtnHub)))
	return Screen{Text: b.String(), Markup: markup}
}

// Report итоговый отчет перед отправкой
func Report(v session.View) Screen {
	var b strings.Builder
	b.WriteString("<b>Training Complete</b>\n\n")
	if v.User != nil {
		fmt.Fprintf(&b, "%s (%s)\n", html.EscapeString(v.User.FullName), html.EscapeString(v.User.Username))
	}
	fmt.Fprintf(&b, "Overall result: <b>%s</b>\n\n", dashboard.ResultLabel(v.OverallResult))
	b.WriteString("<b>Detailed Results</b>\n")
	writeBreakdown(&b, progress.Breakdown(v.Progress, v.Quizzes))
	if v.LastError != "" {
		fmt.Fprintf(&b, "\n<b>Connection Error</b>\n%s\n", html.EscapeString(v.LastError))
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Submit Report", BtnSubmit)))
	return Screen{Text: b.String(), Markup: markup}
}

// PostSubmission экран после успешной отправки отчета
func PostSubmission(v session.View) Screen {
	passed := v.Report != nil && v.Report.OverallResult
	if v.Acknowledged {
		return Acknowledged(passed)
	}

	var b strings.Builder
	if passed {
		b.WriteString("<b>Congratulations, You Passed!</b>\n\n")
		b.WriteString("You have met the passing requirement for the IT Security Policy training. Please request your certificate of completion.")
	} else {
		b.WriteString("<b>Requirement Not Met</b>\n\n")
		b.WriteString("Unfortunately, you did not meet the passing requirement for this assessment. Please request approval to retake the training.")
	}

	label := "Request Retake"
	if passed {
		label = "Request Certificate"
	}
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data(label, BtnAck)))
	return Screen{Text: b.String(), Markup: markup}
}

// Acknowledged экран после подтверждения итога
func Acknowledged(passed bool) Screen {
	if passed {
		return Screen{Text: "<b>Certificate of Completion</b>\n\nYour certificate has been sent. You will be logged out shortly."}
	}
	return Screen{Text: "<b>Request Submitted</b>\n\nYour request has been sent to the administrator. You will be logged out shortly."}
}

func writeBreakdown(b *strings.Builder, rows []progress.QuizResult) {
	for _, r := range rows {
		fmt.Fprintf(b, "\n%s <b>%s</b>: %d/%d (%d%%)\n", passIcon(r.Passed), html.EscapeString(r.Name), r.Score, r.Total, r.Percentage)
		if len(r.Weaknesses) > 0 {
			b.WriteString("Areas of weakness:\n")
			for _, w := range r.Weaknesses {
				fmt.Fprintf(b, "• %s\n", html.EscapeString(w))
			}
		}
	}
}

func statusLabel(entry model.ProgressEntry) string {
	switch entry.Status {
	case model.StatusCompleted:
		return fmt.Sprintf("Completed (%d/%d)", entry.Score, entry.Total)
	case model.StatusInProgress:
		return "In Progress"
	}
	return "Not Started"
}

func statusIcon(status model.QuizStatus) string {
	switch status {
	case model.StatusCompleted:
		return "✅"
	case model.StatusInProgress:
		return "⏳"
	}
	return "▫️"
}

func buttonLabel(q model.Quiz, entry model.ProgressEntry) string {
	switch entry.Status {
	case model.StatusCompleted:
		return "Retake: " + q.Name
	case model.StatusInProgress:
		return "Restart: " + q.Name
	}
	return "Start: " + q.Name
}

func passIcon(passed bool) string {
	if passed {
		return "✅"
	}
	return "❌"
}

// Refresh отправляет экран текущего состояния, ошибки отправки пишутся в лог
func Refresh(c telebot.Context, v session.View) error {
	if err := Show(c, ForView(v)); err != nil {
		log.Printf("failed to render %s screen: %v", v.State, err)
		return err
	}
	return nil
}

// Reject показывает ошибку действия и перерисовывает актуальный экран,
// так как кнопка могла устареть
func Reject(c telebot.Context, v session.View, err error) error {
	if alertErr := Alert(c, err.Error()); alertErr != nil {
		log.Printf("failed to show error: %v", alertErr)
	}
	return Refresh(c, v)
}

// maxMessageLen запас до лимита Telegram в 4096 символов
const maxMessageLen = 3800

// SendLong отправляет длинный текст несколькими сообщениями, разрезая по строкам
func SendLong(c telebot.Context, text string) error {
	for _, chunk := range SplitMessage(text, maxMessageLen) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage делит текст на части не длиннее limit байт по границам строк.
// Строка длиннее limit режется по байтам.
func SplitMessage(text string, limit int) []string {
	var (
		chunks []string
		b      strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if b.Len() > 0 {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if b.Len() > 0 && b.Len()+1+len(line) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
