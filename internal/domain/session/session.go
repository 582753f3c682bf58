package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
	"github.com/IT-Nick/compliance-bot/internal/domain/progresssync"
)

// State экран, на котором находится пользователь
type State string

const (
	StateLogin          State = "login"
	StateHub            State = "hub"
	StateRunning        State = "running"
	StateFinished       State = "finished"
	StateReport         State = "report"
	StatePostSubmission State = "post_submission"
)

var (
	ErrInvalidTransition = errors.New("This action is not available right now.")
	ErrQuizUnavailable   = errors.New("The selected quiz could not be found. Please return to the dashboard and try again.")
	ErrNotAllCompleted   = errors.New("Please complete all quizzes before generating the report.")
	ErrNoAnswer          = errors.New("Please select an answer first.")
	ErrInvalidOption     = errors.New("Unknown answer option.")
)

// QuizSource каталог квизов
type QuizSource interface {
	Quizzes() []model.Quiz
}

// Authenticator проверяет учетные данные пользователя
type Authenticator interface {
	Authenticate(username, password string) (model.User, error)
}

// ProgressSync удаленная копия прогресса
type ProgressSync interface {
	Save(username string, m model.ProgressMap) string
	Fetch(ctx context.Context, username string) (model.ProgressMap, error)
}

// ReportSubmitter отправляет итоговый отчет
type ReportSubmitter interface {
	Submit(ctx context.Context, user model.ReportUser, m model.ProgressMap, quizzes []model.Quiz) (model.TrainingReport, error)
}

// RetakeRequester создает заявку на пересдачу
type RetakeRequester interface {
	Request(user model.ReportUser, overallResult bool) (bool, error)
}

// Dependencies зависимости сессии
type Dependencies struct {
	Quizzes  QuizSource
	Accounts Authenticator
	Progress ProgressSync
	Reports  ReportSubmitter
	Retakes  RetakeRequester
}

// Session состояние прохождения обучения одним пользователем
type Session struct {
	deps Dependencies

	mu            sync.Mutex
	state         State
	user          *model.User
	progress      model.ProgressMap
	activeQuizID  string
	quiz          *model.Quiz // снимок квиза на момент старта
	questionIndex int
	selected      string
	restored      bool
	report        *model.TrainingReport
	acknowledged  bool
	lastError     string
}

// NewSession создает сессию в состоянии login
func NewSession(deps Dependencies) *Session {
	return &Session{deps: deps, state: StateLogin}
}

// Login проверяет учетные данные и загружает сохраненный прогресс.
// Возвращает true, если прогресс восстановлен с сервера.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLogin {
		return false, ErrInvalidTransition
	}
	user, err := s.deps.Accounts.Authenticate(username, password)
	if err != nil {
		return false, err
	}

	quizzes := s.deps.Quizzes.Quizzes()
	saved, err := s.deps.Progress.Fetch(ctx, user.Username)
	switch {
	case err == nil && saved != nil:
		s.progress = progress.Reconcile(saved, quizzes)
		s.restored = true
	default:
		if err != nil && !errors.Is(err, progresssync.ErrNotFound) {
			log.Printf("could not fetch progress for %s, starting fresh: %v", user.Username, err)
		}
		s.progress = progress.Initialize(quizzes)
		s.restored = false
	}

	s.user = &user
	s.state = StateHub
	s.lastError = ""
	return s.restored, nil
}

// StartQuiz начинает квиз заново с первого вопроса
func (s *Session) StartQuiz(quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHub {
		return ErrInvalidTransition
	}
	quizzes := s.deps.Quizzes.Quizzes()
	s.progress = progress.StartQuiz(progress.Reconcile(s.progress, quizzes), quizID)
	s.activeQuizID = quizID
	s.quiz = nil
	for _, q := range quizzes {
		if q.ID == quizID {
			snapshot := q.Clone()
			s.quiz = &snapshot
			break
		}
	}
	s.questionIndex = 0
	s.selected = ""
	s.state = StateRunning
	s.sync()
	return nil
}

// CurrentQuestion возвращает текущий вопрос, номер и число вопросов в квизе
func (s *Session) CurrentQuestion() (model.Question, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return model.Question{}, 0, 0, ErrInvalidTransition
	}
	quiz, err := s.activeQuiz()
	if err != nil {
		return model.Question{}, 0, 0, err
	}
	return quiz.Questions[s.questionIndex], s.questionIndex, len(quiz.Questions), nil
}

// Answer запоминает выбранный вариант. Выбор можно менять до перехода к следующему вопросу.
func (s *Session) Answer(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return ErrInvalidTransition
	}
	quiz, err := s.activeQuiz()
	if err != nil {
		return err
	}
	if !quiz.Questions[s.questionIndex].HasOption(option) {
		return ErrInvalidOption
	}
	s.selected = option
	return nil
}

// Next засчитывает выбранный ответ и переходит к следующему вопросу.
// Возвращает true, если квиз завершен.
func (s *Session) Next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return false, ErrInvalidTransition
	}
	quiz, err := s.activeQuiz()
	if err != nil {
		return false, err
	}
	if s.selected == "" {
		return false, ErrNoAnswer
	}

	question := quiz.Questions[s.questionIndex]
	s.progress = progress.RecordAnswer(s.progress, quiz.ID, question, s.selected == question.CorrectAnswer)
	s.selected = ""

	finished := s.questionIndex+1 >= len(quiz.Questions)
	if finished {
		s.progress = progress.CompleteQuiz(s.progress, quiz.ID)
		s.state = StateFinished
	} else {
		s.questionIndex++
	}
	s.sync()
	return finished, nil
}

// ReturnToHub возвращает на главный экран после квиза или из недоступного квиза
func (s *Session) ReturnToHub() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFinished:
	case StateRunning:
		if _, err := s.activeQuiz(); err == nil {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	s.activeQuizID = ""
	s.quiz = nil
	s.questionIndex = 0
	s.selected = ""
	s.state = StateHub
	// каталог мог измениться, пока квиз шел
	s.progress = progress.Reconcile(s.progress, s.deps.Quizzes.Quizzes())
	s.sync()
	return nil
}

// GenerateReport открывает отчет, когда все квизы завершены
func (s *Session) GenerateReport() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHub {
		return ErrInvalidTransition
	}
	if !progress.AllCompleted(s.progress, s.deps.Quizzes.Quizzes()) {
		return ErrNotAllCompleted
	}
	s.state = StateReport
	s.lastError = ""
	return nil
}

// SubmitReport отправляет отчет. При ошибке сессия остается на экране отчета.
func (s *Session) SubmitReport(ctx context.Context) (model.TrainingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReport {
		return model.TrainingReport{}, ErrInvalidTransition
	}
	report, err := s.deps.Reports.Submit(ctx, s.user.Identity(), s.progress, s.deps.Quizzes.Quizzes())
	if err != nil {
		s.lastError = err.Error()
		return model.TrainingReport{}, err
	}
	s.report = &report
	s.lastError = ""
	s.state = StatePostSubmission
	return report, nil
}

// AcknowledgeSubmission подтверждает итог. При неудаче создает заявку на пересдачу.
// Повторный вызов ничего не делает.
func (s *Session) AcknowledgeSubmission() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePostSubmission {
		return false, ErrInvalidTransition
	}
	if s.acknowledged {
		return false, nil
	}
	created, err := s.deps.Retakes.Request(s.user.Identity(), s.report.OverallResult)
	if err != nil {
		return false, err
	}
	s.acknowledged = true
	return created, nil
}

// Logout полностью сбрасывает сессию
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLogin
	s.user = nil
	s.progress = nil
	s.activeQuizID = ""
	s.quiz = nil
	s.questionIndex = 0
	s.selected = ""
	s.restored = false
	s.report = nil
	s.acknowledged = false
	s.lastError = ""
}

// Reconcile приводит прогресс к текущему каталогу после его изменения.
// Идущий или завершенный квиз приводится при возврате на главный экран.
func (s *Session) Reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHub {
		return
	}
	s.progress = progress.Reconcile(s.progress, s.deps.Quizzes.Quizzes())
	s.sync()
}

// View возвращает снимок сессии для отрисовки
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	quizzes := s.deps.Quizzes.Quizzes()
	v := View{
		State:         s.state,
		Quizzes:       quizzes,
		Progress:      s.progress.Clone(),
		QuestionIndex: s.questionIndex,
		Selected:      s.selected,
		Restored:      s.restored,
		Acknowledged:  s.acknowledged,
		LastError:     s.lastError,
	}
	if s.user != nil {
		identity := s.user.Identity()
		v.User = &identity
	}
	if s.state == StateRunning || s.state == StateFinished {
		v.ActiveQuizID = s.activeQuizID
		if quiz, err := s.activeQuiz(); err == nil {
			v.ActiveQuiz = &quiz
		}
	}
	if s.progress != nil {
		v.AllCompleted = progress.AllCompleted(s.progress, quizzes)
		v.OverallResult = progress.OverallResult(s.progress, quizzes)
	}
	if s.report != nil {
		report := *s.report
		v.Report = &report
	}
	return v
}

// activeQuiz возвращает снимок активного квиза, если он существовал при старте и не пуст.
// Правки каталога во время прохождения на квиз не влияют.
func (s *Session) activeQuiz() (model.Quiz, error) {
	if s.quiz == nil || len(s.quiz.Questions) == 0 || s.questionIndex >= len(s.quiz.Questions) {
		return model.Quiz{}, ErrQuizUnavailable
	}
	return s.quiz.Clone(), nil
}

// sync отправляет прогресс на сервер, пока пользователь вошел в систему
func (s *Session) sync() {
	if s.user == nil || s.state == StateLogin {
		return
	}
	s.deps.Progress.Save(strings.TrimSpace(s.user.Username), s.progress)
}
