package generate_report_handler

import (
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// GenerateReportHandler структура для обработки кнопки формирования отчета
type GenerateReportHandler struct {
	sessions *session.Manager
}

// NewGenerateReportHandler возвращает структуру обработчика
func NewGenerateReportHandler(sessions *session.Manager) *GenerateReportHandler {
	return &GenerateReportHandler{sessions: sessions}
}

// Handle открывает итоговый отчет, если все модули завершены
func (h *GenerateReportHandler) Handle(c telebot.Context) error {
	s := h.sessions.Get(c.Chat().ID)
	if err := s.GenerateReport(); err != nil {
		return screens.Reject(c, s.View(), err)
	}
	return screens.Refresh(c, s.View())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *GenerateReportHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
