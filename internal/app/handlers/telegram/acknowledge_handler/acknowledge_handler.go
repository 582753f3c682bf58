package acknowledge_handler

import (
	"bytes"
	"log"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"github.com/IT-Nick/compliance-bot/internal/infra/timer"
	"github.com/IT-Nick/compliance-bot/report"
	"gopkg.in/telebot.v4"
)

// QuizSource каталог квизов для детализации сертификата
type QuizSource interface {
	Quizzes() []model.Quiz
}

// AcknowledgeHandler структура для обработки кнопки Request Certificate / Request Retake
type AcknowledgeHandler struct {
	sessions  *session.Manager
	timers    *timer.Manager
	quizzes   QuizSource
	delay     time.Duration
	publicURL string
}

// NewAcknowledgeHandler возвращает структуру обработчика. delay - пауза перед выходом из сессии.
func NewAcknowledgeHandler(sessions *session.Manager, timers *timer.Manager, quizzes QuizSource, delay time.Duration, publicURL string) *AcknowledgeHandler {
	return &AcknowledgeHandler{
		sessions:  sessions,
		timers:    timers,
		quizzes:   quizzes,
		delay:     delay,
		publicURL: publicURL,
	}
}

// Handle подтверждает итог: при успехе отправляет сертификат, при неудаче создает
// заявку на пересдачу. Через delay сессия завершается.
func (h *AcknowledgeHandler) Handle(c telebot.Context) error {
	chatID := c.Chat().ID
	s := h.sessions.Get(chatID)

	// повторное нажатие: сертификат уже отправлен, выход запланирован
	if s.View().Acknowledged {
		return screens.Refresh(c, s.View())
	}

	created, err := s.AcknowledgeSubmission()
	if err != nil {
		return screens.Reject(c, s.View(), err)
	}

	v := s.View()
	passed := v.Report != nil && v.Report.OverallResult
	if created {
		log.Printf("retake request created for %s", v.Report.User.Username)
	}
	if passed {
		if err := h.sendCertificate(c, *v.Report); err != nil {
			log.Printf("failed to send certificate to chat %d: %v", chatID, err)
		}
	}
	if err := screens.Show(c, screens.Acknowledged(passed)); err != nil {
		log.Printf("failed to render acknowledgement: %v", err)
	}

	bot, chat := c.Bot(), c.Chat()
	h.timers.Schedule(chatID, h.delay, func() {
		s.Logout()
		login := screens.Login("")
		if _, err := bot.Send(chat, login.Text, telebot.ModeHTML); err != nil {
			log.Printf("failed to send login screen to chat %d: %v", chatID, err)
		}
	})
	return nil
}

func (h *AcknowledgeHandler) sendCertificate(c telebot.Context, r model.TrainingReport) error {
	data, err := report.GeneratePDF(r, h.quizzes.Quizzes(), report.Options{
		VerifyURL: report.CertificateURL(h.publicURL, r.ID),
	})
	if err != nil {
		return err
	}
	return c.Send(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(data)),
		FileName: report.Filename(r),
		Caption:  "Certificate of Completion",
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AcknowledgeHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
