package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progresssync"
	"github.com/IT-Nick/compliance-bot/internal/domain/retake"
	"github.com/IT-Nick/compliance-bot/internal/domain/submission"
	"github.com/IT-Nick/compliance-bot/internal/domain/users/repository"
	"github.com/IT-Nick/compliance-bot/internal/domain/users/service"
	"github.com/IT-Nick/compliance-bot/internal/infra/remote"
)

// syncProgress синхронно пишет прогресс в remote.Memory
type syncProgress struct {
	mem   *remote.Memory
	saves int
}

func (p *syncProgress) Save(username string, m model.ProgressMap) string {
	p.saves++
	_ = p.mem.SaveProgress(context.Background(), username, m)
	return "save"
}

func (p *syncProgress) Delete(username string) string {
	_ = p.mem.DeleteProgress(context.Background(), username)
	return "delete"
}

func (p *syncProgress) Purge(ctx context.Context, username string) error {
	if err := p.mem.DeleteProgress(ctx, username); err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}
	return nil
}

func (p *syncProgress) Fetch(ctx context.Context, username string) (model.ProgressMap, error) {
	return p.mem.GetProgress(ctx, username)
}

type fixture struct {
	session  *Session
	catalog  *catalog.Catalog
	users    *service.UserService
	mem      *remote.Memory
	progress *syncProgress
	retakes  *retake.Workflow
}

// progressStore то, что сессия, пайплайн и заявки требуют от синхронизации прогресса
type progressStore interface {
	ProgressSync
	Delete(username string) string
	Purge(ctx context.Context, username string) error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := remote.NewMemory()
	sp := &syncProgress{mem: mem}
	f := buildFixture(t, mem, sp)
	f.progress = sp
	return f
}

func buildFixture(t *testing.T, mem *remote.Memory, sp progressStore) *fixture {
	t.Helper()
	store := database.NewMemoryStore()
	users := service.NewUserService(repository.NewUserRepository(store))
	if _, err := users.AddUser("Alice Smith", "alice", "secret"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	c := catalog.New([]model.Quiz{
		{ID: "A", Name: "Quiz A", Questions: []model.Question{
			{ID: 1, Question: "A1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 2, Question: "A2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
		{ID: "B", Name: "Quiz B", Questions: []model.Question{
			{ID: 3, Question: "B1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 4, Question: "B2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
		{ID: "E", Name: "Empty", Questions: []model.Question{}},
	})

	retakes := retake.NewWorkflow(retake.NewRepository(store), users, sp)
	s := NewSession(Dependencies{
		Quizzes:  c,
		Accounts: users,
		Progress: sp,
		Reports:  submission.NewPipeline(mem, sp, users),
		Retakes:  retakes,
	})
	return &fixture{session: s, catalog: c, users: users, mem: mem, retakes: retakes}
}

func (f *fixture) play(t *testing.T, quizID string, answers ...string) {
	t.Helper()
	if err := f.session.StartQuiz(quizID); err != nil {
		t.Fatalf("StartQuiz(%s): %v", quizID, err)
	}
	for i, a := range answers {
		if err := f.session.Answer(a); err != nil {
			t.Fatalf("Answer: %v", err)
		}
		finished, err := f.session.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if finished != (i == len(answers)-1) {
			t.Fatalf("вопрос %d: finished=%v", i, finished)
		}
	}
	if err := f.session.ReturnToHub(); err != nil {
		t.Fatalf("ReturnToHub: %v", err)
	}
}

// TestLogin проверяет вход с пробелами и регистром, а также ошибки.
func TestLogin(t *testing.T) {
	f := newFixture(t)

	if _, err := f.session.Login(context.Background(), "alice", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("ожидалась ErrInvalidCredentials, получено %v", err)
	}
	restored, err := f.session.Login(context.Background(), "  ALICE ", "secret")
	if err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}
	if restored {
		t.Errorf("прогресса на сервере нет, restored должен быть false")
	}
	v := f.session.View()
	if v.State != StateHub || v.User.Username != "alice" || len(v.Progress) != 3 {
		t.Errorf("неверное состояние после входа: %+v", v)
	}
	if f.progress.saves != 0 {
		t.Errorf("вход не должен отправлять прогресс")
	}
}

// TestLogin_RestoresProgress проверяет восстановление прогресса с сервера.
func TestLogin_RestoresProgress(t *testing.T) {
	f := newFixture(t)
	saved := model.ProgressMap{
		"A":     {Status: model.StatusCompleted, Score: 2, Total: 2, UserAnswers: []model.UserAnswer{}},
		"stale": {Status: model.StatusCompleted},
	}
	_ = f.mem.SaveProgress(context.Background(), "alice", saved)

	restored, err := f.session.Login(context.Background(), "alice", "secret")
	if err != nil || !restored {
		t.Fatalf("ожидалось восстановление: restored=%v err=%v", restored, err)
	}
	v := f.session.View()
	if v.Progress["A"].Status != model.StatusCompleted {
		t.Errorf("прогресс A не восстановлен")
	}
	if _, ok := v.Progress["stale"]; ok {
		t.Errorf("неизвестный квиз должен быть удален")
	}
	if v.Progress["B"].Status != model.StatusNotStarted {
		t.Errorf("для B ожидалась новая запись")
	}
}

// TestLogin_FetchFailure проверяет, что ошибка сети дает новый прогресс.
func TestLogin_FetchFailure(t *testing.T) {
	f := newFixture(t)
	f.mem.SetFailures(nil, errors.New("offline"))

	restored, err := f.session.Login(context.Background(), "alice", "secret")
	if err != nil || restored {
		t.Fatalf("restored=%v err=%v", restored, err)
	}
	if f.session.View().Progress["A"].Status != model.StatusNotStarted {
		t.Errorf("ожидался новый прогресс")
	}
}

// TestQuizFlow проверяет переходы running и finished и синхронизацию.
func TestQuizFlow(t *testing.T) {
	f := newFixture(t)
	if _, err := f.session.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.session.StartQuiz("A"); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if _, err := f.session.Next(); !errors.Is(err, ErrNoAnswer) {
		t.Errorf("ожидалась ErrNoAnswer, получено %v", err)
	}
	if err := f.session.Answer("maybe"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("ожидалась ErrInvalidOption, получено %v", err)
	}
	if err := f.session.ReturnToHub(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("из идущего квиза нельзя выйти, получено %v", err)
	}

	_ = f.session.Answer("n")
	_ = f.session.Answer("y")
	if finished, err := f.session.Next(); err != nil || finished {
		t.Fatalf("первый вопрос: finished=%v err=%v", finished, err)
	}
	q, idx, total, err := f.session.CurrentQuestion()
	if err != nil || q.ID != 2 || idx != 1 || total != 2 {
		t.Errorf("неверный текущий вопрос: %+v %d/%d %v", q, idx, total, err)
	}
	_ = f.session.Answer("n")
	if finished, err := f.session.Next(); err != nil || !finished {
		t.Fatalf("второй вопрос: finished=%v err=%v", finished, err)
	}

	v := f.session.View()
	if v.State != StateFinished || v.Progress["A"].Score != 1 || v.Progress["A"].Status != model.StatusCompleted {
		t.Errorf("неверное состояние: %+v", v.Progress["A"])
	}
	remoteProgress, err := f.mem.GetProgress(context.Background(), "alice")
	if err != nil || remoteProgress["A"].Status != model.StatusCompleted {
		t.Errorf("прогресс не синхронизирован: %+v %v", remoteProgress, err)
	}
	if f.progress.saves != 3 {
		t.Errorf("ожидалось 3 синхронизации, получено %d", f.progress.saves)
	}
}

// TestQuizUnavailable проверяет запасной экран для пустого и неизвестного квиза.
func TestQuizUnavailable(t *testing.T) {
	f := newFixture(t)
	if _, err := f.session.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	for _, id := range []string{"E", "missing"} {
		if err := f.session.StartQuiz(id); err != nil {
			t.Fatalf("StartQuiz(%s): %v", id, err)
		}
		if _, _, _, err := f.session.CurrentQuestion(); !errors.Is(err, ErrQuizUnavailable) {
			t.Errorf("%s: ожидалась ErrQuizUnavailable, получено %v", id, err)
		}
		if err := f.session.ReturnToHub(); err != nil {
			t.Errorf("%s: возврат на главный экран: %v", id, err)
		}
		if f.session.View().State != StateHub {
			t.Errorf("%s: ожидалось состояние hub", id)
		}
	}
}

// TestSubmit_Pass проверяет сценарий 3/4 = 75%: отчет принят, пользователь expired, прогресс удален.
func TestSubmit_Pass(t *testing.T) {
	f := newFixture(t)
	_ = f.catalog.Import([]model.Quiz{
		{ID: "A", Name: "Quiz A", Questions: []model.Question{
			{ID: 1, Question: "A1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 2, Question: "A2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
		{ID: "B", Name: "Quiz B", Questions: []model.Question{
			{ID: 3, Question: "B1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 4, Question: "B2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
	})
	ctx := context.Background()
	if _, err := f.session.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.session.GenerateReport(); !errors.Is(err, ErrNotAllCompleted) {
		t.Errorf("ожидалась ErrNotAllCompleted, получено %v", err)
	}
	f.play(t, "A", "y", "y")
	f.play(t, "B", "n", "y")

	if err := f.session.GenerateReport(); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if !f.session.View().OverallResult {
		t.Errorf("ожидался итог true при 75%%")
	}

	f.mem.SetFailures(errors.New("503"), nil)
	if _, err := f.session.SubmitReport(ctx); !errors.Is(err, submission.ErrSubmissionFailed) {
		t.Fatalf("ожидалась ErrSubmissionFailed, получено %v", err)
	}
	v := f.session.View()
	if v.State != StateReport || v.LastError == "" {
		t.Errorf("после ошибки сессия должна остаться на отчете: %+v", v)
	}
	if u, _ := f.users.GetUser("alice"); u.Status != model.UserActive {
		t.Errorf("пользователь не должен меняться при ошибке")
	}

	f.mem.SetFailures(nil, nil)
	report, err := f.session.SubmitReport(ctx)
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if !report.OverallResult || f.session.View().State != StatePostSubmission {
		t.Errorf("неверный результат отправки: %+v", report)
	}
	if u, _ := f.users.GetUser("alice"); u.Status != model.UserExpired {
		t.Errorf("пользователь должен стать expired")
	}
	if _, err := f.mem.GetProgress(ctx, "alice"); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("прогресс на сервере должен быть удален, получено %v", err)
	}

	created, err := f.session.AcknowledgeSubmission()
	if err != nil || created {
		t.Errorf("при успехе заявка не создается: created=%v err=%v", created, err)
	}
	f.session.Logout()
	if _, err := f.session.Login(ctx, "alice", "secret"); !errors.Is(err, service.ErrAccountExpired) {
		t.Errorf("ожидалась ErrAccountExpired, получено %v", err)
	}
}

// TestSubmit_FailAndRetake проверяет сценарий 2/4 = 50% и одобрение пересдачи.
func TestSubmit_FailAndRetake(t *testing.T) {
	f := newFixture(t)
	_ = f.catalog.Import([]model.Quiz{
		{ID: "A", Name: "Quiz A", Questions: []model.Question{
			{ID: 1, Question: "A1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 2, Question: "A2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
		{ID: "B", Name: "Quiz B", Questions: []model.Question{
			{ID: 3, Question: "B1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
			{ID: 4, Question: "B2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		}},
	})
	ctx := context.Background()
	if _, err := f.session.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	f.play(t, "A", "y", "y")
	f.play(t, "B", "n", "n")
	if err := f.session.GenerateReport(); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	report, err := f.session.SubmitReport(ctx)
	if err != nil || report.OverallResult {
		t.Fatalf("ожидался итог false: %+v %v", report, err)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.session.AcknowledgeSubmission(); err != nil {
			t.Fatalf("AcknowledgeSubmission: %v", err)
		}
	}
	pending, _ := f.retakes.Pending()
	if len(pending) != 1 || pending[0].Username != "alice" {
		t.Fatalf("ожидалась одна заявка, получено %+v", pending)
	}

	f.session.Logout()
	if f.session.View().State != StateLogin {
		t.Errorf("после выхода ожидалось состояние login")
	}

	if ok, err := f.retakes.Approve(ctx, "alice"); err != nil || !ok {
		t.Fatalf("Approve: ok=%v err=%v", ok, err)
	}
	if ok, _ := f.retakes.Approve(ctx, "alice"); ok {
		t.Errorf("повторное одобрение должно ничего не делать")
	}
	if _, err := f.session.Login(ctx, "alice", "secret"); err != nil {
		t.Errorf("после одобрения вход должен работать: %v", err)
	}
}

// TestManager проверяет, что у каждого чата своя сессия.
func TestManager(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.session.deps)

	a := m.Get(1)
	if m.Get(1) != a || m.Get(2) == a {
		t.Errorf("сессии чатов должны различаться")
	}
	if _, err := a.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := m.Describe(1); got != "hub (alice)" {
		t.Errorf("Describe: ожидалось hub (alice), получено %q", got)
	}
	if got := m.Describe(99); got != "login" {
		t.Errorf("Describe для нового чата: ожидалось login, получено %q", got)
	}

	_ = f.catalog.Import([]model.Quiz{{ID: "Z", Name: "Quiz Z", Questions: []model.Question{
		{ID: 9, Question: "Z1", Options: []string{"y"}, CorrectAnswer: "y"},
	}}})
	m.OnCatalogChange(nil)
	if p := a.View().Progress; len(p) != 1 || p["Z"].Total != 1 {
		t.Errorf("прогресс не приведен к новому каталогу: %+v", p)
	}

	m.Drop(1)
	if m.Get(1) == a {
		t.Errorf("после Drop ожидалась новая сессия")
	}
}

// slowRemote удаленное хранилище, которое медленно сохраняет и удаляет
type slowRemote struct {
	*remote.Memory
	delay time.Duration
}

func (r *slowRemote) SaveProgress(ctx context.Context, username string, p model.ProgressMap) error {
	time.Sleep(r.delay)
	return r.Memory.SaveProgress(ctx, username, p)
}

func (r *slowRemote) DeleteProgress(ctx context.Context, username string) error {
	time.Sleep(r.delay)
	return r.Memory.DeleteProgress(ctx, username)
}

// newSyncedFixture собирает сессию поверх настоящего Syncer и медленного сервера
func newSyncedFixture(t *testing.T, delay time.Duration) (*fixture, *progresssync.Syncer) {
	t.Helper()
	slow := &slowRemote{Memory: remote.NewMemory(), delay: delay}
	syncer := progresssync.NewSyncer(slow, 16, 2*time.Second)
	syncer.Start(context.Background())
	t.Cleanup(syncer.Close)
	return buildFixture(t, slow.Memory, syncer), syncer
}

// answerAcrossEdit проходит квиз из трех вопросов, удаляя третий вопрос из каталога после первого ответа
func answerAcrossEdit(t *testing.T, f *fixture) {
	t.Helper()
	err := f.catalog.Import([]model.Quiz{{ID: "A", Name: "Quiz A", Questions: []model.Question{
		{ID: 1, Question: "A1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		{ID: 2, Question: "A2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		{ID: 3, Question: "A3", Options: []string{"y", "n"}, CorrectAnswer: "y"},
	}}})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, err := f.session.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.session.StartQuiz("A"); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	for i := 0; i < 3; i++ {
		if i == 1 {
			if err := f.catalog.DeleteQuestion("A", 3); err != nil {
				t.Fatalf("DeleteQuestion: %v", err)
			}
			q, idx, total, err := f.session.CurrentQuestion()
			if err != nil || q.ID != 2 || idx != 1 || total != 3 {
				t.Fatalf("после правки каталога: %+v %d/%d %v", q, idx, total, err)
			}
		}
		if err := f.session.Answer("y"); err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
		finished, err := f.session.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if finished != (i == 2) {
			t.Fatalf("вопрос %d: finished=%v", i, finished)
		}
	}
}

func checkCompleted(t *testing.T, entry model.ProgressEntry, total int) {
	t.Helper()
	if entry.Status != model.StatusCompleted || entry.Total != total || len(entry.UserAnswers) != total || entry.Score != total {
		t.Errorf("ожидалось completed %d/%d с %d ответами, получено %+v", total, total, total, entry)
	}
}

// TestCatalogEditDuringQuiz проверяет, что правка каталога не меняет идущий квиз,
// а прогресс приводится к каталогу при возврате на главный экран.
func TestCatalogEditDuringQuiz(t *testing.T) {
	f := newFixture(t)
	answerAcrossEdit(t, f)

	v := f.session.View()
	checkCompleted(t, v.Progress["A"], 3)
	if v.ActiveQuiz == nil || len(v.ActiveQuiz.Questions) != 3 {
		t.Errorf("экран результата должен показывать квиз, который проходил пользователь: %+v", v.ActiveQuiz)
	}

	if err := f.session.ReturnToHub(); err != nil {
		t.Fatalf("ReturnToHub: %v", err)
	}
	entry := f.session.View().Progress["A"]
	if entry.Status != model.StatusNotStarted || entry.Total != 2 {
		t.Errorf("квиз изменился, запись должна быть сброшена: %+v", entry)
	}
	saved, err := f.mem.GetProgress(context.Background(), "alice")
	if err != nil || saved["A"].Total != 2 {
		t.Errorf("приведенный прогресс не синхронизирован: %+v %v", saved, err)
	}
}

// TestCatalogEditDuringQuiz_Synced то же через настоящий Syncer: на сервер уходит полный журнал ответов.
func TestCatalogEditDuringQuiz_Synced(t *testing.T) {
	f, syncer := newSyncedFixture(t, 20*time.Millisecond)
	answerAcrossEdit(t, f)
	syncer.Close()

	saved, err := f.mem.GetProgress(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	checkCompleted(t, saved["A"], 3)
}

// TestReconcile_Syncs проверяет, что приведение прогресса на главном экране уходит на сервер,
// а завершенный квиз приводится при возврате на главный экран.
func TestReconcile_Syncs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.session.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	quizA := model.Quiz{ID: "A", Name: "Quiz A", Questions: []model.Question{
		{ID: 1, Question: "A1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
		{ID: 2, Question: "A2", Options: []string{"y", "n"}, CorrectAnswer: "y"},
	}}
	quizC := model.Quiz{ID: "C", Name: "Quiz C", Questions: []model.Question{
		{ID: 5, Question: "C1", Options: []string{"y", "n"}, CorrectAnswer: "y"},
	}}
	if err := f.catalog.Import([]model.Quiz{quizA, quizC}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	f.session.Reconcile()
	saved, err := f.mem.GetProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("прогресс не отправлен после приведения: %v", err)
	}
	if _, ok := saved["B"]; ok || len(saved) != 2 {
		t.Errorf("на сервере остались лишние ключи: %+v", saved)
	}

	// каталог меняется, пока открыт экран результата
	if err := f.session.StartQuiz("A"); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	for range 2 {
		_ = f.session.Answer("y")
		if _, err := f.session.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if err := f.catalog.Import([]model.Quiz{quizA}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	f.session.Reconcile()
	if err := f.session.ReturnToHub(); err != nil {
		t.Fatalf("ReturnToHub: %v", err)
	}

	v := f.session.View()
	if _, ok := v.Progress["C"]; ok || len(v.Progress) != 1 {
		t.Errorf("после возврата остались лишние ключи: %+v", v.Progress)
	}
	checkCompleted(t, v.Progress["A"], 2)
	if err := f.session.GenerateReport(); err != nil {
		t.Errorf("GenerateReport: %v", err)
	}
	if len(f.session.View().Progress) != 1 {
		t.Errorf("в отчет попадут лишние квизы")
	}
}

// TestApproveThenLogin_SlowRemote проверяет, что вход сразу после одобрения пересдачи
// не восстанавливает старый прогресс, даже если сервер медленный и сохранение еще в очереди.
func TestApproveThenLogin_SlowRemote(t *testing.T) {
	f, syncer := newSyncedFixture(t, 200*time.Millisecond)
	ctx := context.Background()

	completed := model.ProgressMap{
		"A": {Status: model.StatusCompleted, Score: 2, Total: 2, UserAnswers: []model.UserAnswer{
			{QuestionID: 1, IsCorrect: true, QuestionText: "A1"},
			{QuestionID: 2, IsCorrect: true, QuestionText: "A2"},
		}},
	}
	if err := f.mem.SaveProgress(ctx, "alice", completed); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	// последнее сохранение прошлой сессии еще не дошло до сервера
	syncer.Save("alice", completed)

	if err := f.users.Expire("alice"); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if _, err := f.retakes.Request(model.ReportUser{FullName: "Alice Smith", Username: "alice"}, false); err != nil {
		t.Fatalf("Request: %v", err)
	}

	ok, err := f.retakes.Approve(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("Approve: ok=%v err=%v", ok, err)
	}
	restored, err := f.session.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if restored {
		t.Errorf("старый прогресс не должен восстанавливаться после одобрения")
	}
	if v := f.session.View(); v.Progress["A"].Status != model.StatusNotStarted || v.AllCompleted {
		t.Errorf("ожидался чистый прогресс: %+v", v.Progress)
	}
}

// TestApprove_SlowRemoteTimeout проверяет, что неподтвержденное удаление не активирует пользователя.
func TestApprove_SlowRemoteTimeout(t *testing.T) {
	f, _ := newSyncedFixture(t, 200*time.Millisecond)
	if err := f.users.Expire("alice"); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if _, err := f.retakes.Request(model.ReportUser{FullName: "Alice Smith", Username: "alice"}, false); err != nil {
		t.Fatalf("Request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if ok, err := f.retakes.Approve(ctx, "alice"); err == nil || ok {
		t.Fatalf("ожидалась ошибка по таймауту: ok=%v err=%v", ok, err)
	}
	if u, _ := f.users.GetUser("alice"); u.Status != model.UserExpired {
		t.Errorf("пользователь не должен активироваться, статус %s", u.Status)
	}
	if pending, _ := f.retakes.Pending(); len(pending) != 1 {
		t.Errorf("заявка должна остаться: %+v", pending)
	}
}
