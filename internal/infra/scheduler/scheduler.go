package scheduler

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/go-co-op/gocron"
)

// digestLimit сколько заявок перечислять в сводке
const digestLimit = 20

// PendingSource источник заявок на пересдачу
type PendingSource interface {
	Pending() ([]model.RetakeRequest, error)
}

// Notifier отправляет сообщение администраторам
type Notifier interface {
	NotifyAdmins(text string) error
}

// Scheduler периодически отправляет администраторам сводку по заявкам на пересдачу
type Scheduler struct {
	scheduler *gocron.Scheduler
	requests  PendingSource
	notifier  Notifier
	interval  time.Duration
}

func New(requests PendingSource, notifier Notifier, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		requests:  requests,
		notifier:  notifier,
		interval:  interval,
	}
}

// Start запускает задачи в фоне. Нулевой интервал отключает сводку.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("retake digest is disabled")
		return nil
	}
	if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.sendDigest); err != nil {
		return fmt.Errorf("failed to schedule retake digest: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop останавливает все задачи
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Digest формирует текст сводки. false, если заявок нет.
func (s *Scheduler) Digest() (string, bool, error) {
	requests, err := s.requests.Pending()
	if err != nil {
		return "", false, err
	}
	if len(requests) == 0 {
		return "", false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Pending retake requests: %d\n\n", len(requests))
	for i, r := range requests {
		if i == digestLimit {
			fmt.Fprintf(&b, "...and %d more\n", len(requests)-digestLimit)
			break
		}
		fmt.Fprintf(&b, "• %s (%s), requested %s\n", r.FullName, r.Username, r.RequestDate)
	}
	b.WriteString("\nUse /approve <username> or /deny <username>.")
	return b.String(), true, nil
}

func (s *Scheduler) sendDigest() {
	text, ok, err := s.Digest()
	if err != nil {
		log.Printf("Error building retake digest: %v", err)
		return
	}
	if !ok {
		return
	}
	if err := s.notifier.NotifyAdmins(text); err != nil {
		log.Printf("Error sending retake digest: %v", err)
	}
}
