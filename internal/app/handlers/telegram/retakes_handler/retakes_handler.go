package retakes_handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// RetakeWorkflow заявки на повторное прохождение
type RetakeWorkflow interface {
	Search(term string) ([]model.RetakeRequest, error)
	Approve(ctx context.Context, username string) (bool, error)
	Deny(username string) (bool, error)
}

// RetakesHandler команды обработки заявок на пересдачу
type RetakesHandler struct {
	workflow RetakeWorkflow
	timeout  time.Duration
}

// NewRetakesHandler возвращает структуру обработчика. timeout - ожидание удаления прогресса на сервере.
func NewRetakesHandler(workflow RetakeWorkflow, timeout time.Duration) *RetakesHandler {
	return &RetakesHandler{workflow: workflow, timeout: timeout}
}

// List /requests [search]
func (h *RetakesHandler) List(c telebot.Context) error {
	term := c.Message().Payload
	requests, err := h.workflow.Search(term)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to load retake requests: %v", err))
	}
	return screens.SendLong(c, FormatRequests(requests, term))
}

// Approve /approve <username>
func (h *RetakesHandler) Approve(c telebot.Context) error {
	username := strings.TrimSpace(c.Message().Payload)
	if username == "" {
		return c.Send("Usage: /approve <username>")
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	ok, err := h.workflow.Approve(ctx, username)
	return c.Send(ApproveReply(username, ok, err))
}

// Deny /deny <username>
func (h *RetakesHandler) Deny(c telebot.Context) error {
	username := strings.TrimSpace(c.Message().Payload)
	if username == "" {
		return c.Send("Usage: /deny <username>")
	}
	ok, err := h.workflow.Deny(username)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to deny request: %v", err))
	}
	if !ok {
		return c.Send(fmt.Sprintf("No pending request for %s.", username))
	}
	return c.Send(fmt.Sprintf("Retake request from %s denied.", username))
}

// ApproveReply ответ администратору на /approve
func ApproveReply(username string, ok bool, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("Failed to approve request: %v\nThe request is still pending, try again later.", err)
	case !ok:
		return fmt.Sprintf("No pending request for %s.", username)
	default:
		return fmt.Sprintf("Retake approved for %s. Saved progress was cleared and the account is active again.", username)
	}
}

// FormatRequests список заявок
func FormatRequests(requests []model.RetakeRequest, term string) string {
	if len(requests) == 0 {
		if strings.TrimSpace(term) != "" {
			return "No retake requests match your search."
		}
		return "No pending retake requests."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Retake requests (%d)\n\n", len(requests))
	for _, r := range requests {
		fmt.Fprintf(&b, "%s (%s) - %s\n", r.FullName, r.Username, requestDate(r.RequestDate))
	}
	b.WriteString("\n/approve <username> or /deny <username>")
	return b.String()
}

func requestDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}
