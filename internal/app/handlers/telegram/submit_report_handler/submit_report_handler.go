package submit_report_handler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// SubmitReportHandler структура для обработки кнопки отправки отчета
type SubmitReportHandler struct {
	sessions *session.Manager
	timeout  time.Duration
}

// NewSubmitReportHandler возвращает структуру обработчика. timeout ограничивает отправку отчета.
func NewSubmitReportHandler(sessions *session.Manager, timeout time.Duration) *SubmitReportHandler {
	return &SubmitReportHandler{sessions: sessions, timeout: timeout}
}

// Handle отправляет отчет. При ошибке остается экран отчета с сообщением об ошибке.
func (h *SubmitReportHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)

	if c.Callback() != nil {
		_ = c.Respond(&telebot.CallbackResponse{Text: "Submitting..."})
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	report, err := s.SubmitReport(ctx)
	if errors.Is(err, session.ErrInvalidTransition) {
		return screens.Reject(c, s.View(), err)
	}
	if err != nil {
		log.Printf("report submission failed for chat %d: %v", c.Chat().ID, err)
		return screens.Refresh(c, s.View())
	}
	log.Printf("report %s submitted", report.ID)
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SubmitReportHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
