package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/IT-Nick/compliance-bot/database"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/certificate_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/export_reports_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/progress_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/report_detail_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/report_stats_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/http/reports_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/acknowledge_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/admin_login_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/adminauth"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/admins_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/generate_report_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/login_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/logout_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/next_question_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/questions_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/reports_dashboard_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/retakes_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/return_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/screens"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/start_quiz_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/submit_report_handler"
	"github.com/IT-Nick/compliance-bot/internal/app/handlers/telegram/users_handler"
	adminsRepo "github.com/IT-Nick/compliance-bot/internal/domain/admins/repository"
	adminsService "github.com/IT-Nick/compliance-bot/internal/domain/admins/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/catalog"
	"github.com/IT-Nick/compliance-bot/internal/domain/progresssync"
	reportsRepo "github.com/IT-Nick/compliance-bot/internal/domain/reports/repository"
	reportsService "github.com/IT-Nick/compliance-bot/internal/domain/reports/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/retake"
	savedProgressRepo "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/repository"
	progressService "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/service"
	"github.com/IT-Nick/compliance-bot/internal/domain/session"
	"github.com/IT-Nick/compliance-bot/internal/domain/submission"
	"github.com/IT-Nick/compliance-bot/internal/domain/users/repository"
	"github.com/IT-Nick/compliance-bot/internal/domain/users/service"
	"github.com/IT-Nick/compliance-bot/internal/infra/config"
	"github.com/IT-Nick/compliance-bot/internal/infra/remote"
	"github.com/IT-Nick/compliance-bot/internal/infra/scheduler"
	"github.com/IT-Nick/compliance-bot/internal/infra/timer"
	"github.com/IT-Nick/compliance-bot/middleware"
	"github.com/IT-Nick/compliance-bot/poller"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"
	telebotMiddleware "gopkg.in/telebot.v4/middleware"
)

type Services struct {
	userService     *service.UserService
	adminService    *adminsService.AdminService
	reportService   *reportsService.ReportService
	progressService *progressService.ProgressService
}

// Training состояние обучения в боте
type Training struct {
	catalog  *catalog.Catalog
	remote   Remote
	syncer   *progresssync.Syncer
	retakes  *retake.Workflow
	sessions *session.Manager
	timers   *timer.Manager
	admins   *adminauth.Registry
}

type App struct {
	config *config.Config
	bot    *telebot.Bot
	db     *pgxpool.Pool
	store  database.BlobStore
	server *http.Server

	scheduler *scheduler.Scheduler
	cancel    context.CancelFunc

	Services
	Training
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	store, err := database.NewStore(configImpl.Storage.Driver, configImpl.StorageSource())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	app := &App{
		config: configImpl,
		store:  store,
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	if configImpl.Storage.Driver == "postgres" {
		db, err := InitDatabase(ctx, configImpl)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := MigrateDatabase(ctx, db); err != nil {
			cancel()
			db.Close()
			return nil, err
		}
		app.db = db
	}

	if err := app.initServices(); err != nil {
		cancel()
		return nil, err
	}
	app.initTraining(ctx)

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() error {
	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(app.store)
	adminRepo := adminsRepo.NewAdminRepository(app.store)

	// Отчеты и прогресс хранятся в отдельных таблицах Postgres, иначе в общем хранилище
	var (
		reportRepo   reportsService.ReportRepository
		progressRepo progressService.ProgressRepository
	)
	if app.db != nil {
		reportRepo = reportsRepo.NewPostgresReportRepository(app.db)
		progressRepo = savedProgressRepo.NewPostgresProgressRepository(app.db)
	} else {
		reportRepo = reportsRepo.NewReportRepository(app.store)
		progressRepo = savedProgressRepo.NewProgressRepository(app.store)
	}

	// Инициализация сервисов
	app.userService = service.NewUserService(userRepo)
	app.adminService = adminsService.NewAdminService(adminRepo)
	app.reportService = reportsService.NewReportService(reportRepo)
	app.progressService = progressService.NewProgressService(progressRepo)

	quizzes, err := catalog.Load(app.store)
	if err != nil {
		return fmt.Errorf("failed to load quiz catalog: %w", err)
	}
	app.catalog = quizzes
	return nil
}

// initTraining собирает сессии, синхронизацию прогресса и заявки на пересдачу
func (app *App) initTraining(ctx context.Context) {
	cfg := app.config

	if cfg.Remote.BaseURL != "" {
		log.Printf("Using remote report server %s", cfg.Remote.BaseURL)
		app.remote = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	} else {
		app.remote = newLocalRemote(app.reportService, app.progressService)
	}

	app.syncer = progresssync.NewSyncer(app.remote, cfg.Remote.OutboxSize, cfg.Remote.Timeout)
	app.syncer.Start(ctx)

	app.retakes = retake.NewWorkflow(retake.NewRepository(app.store), app.userService, app.syncer)
	pipeline := submission.NewPipeline(app.remote, app.syncer, app.userService)

	app.sessions = session.NewManager(session.Dependencies{
		Quizzes:  app.catalog,
		Accounts: app.userService,
		Progress: app.syncer,
		Reports:  pipeline,
		Retakes:  app.retakes,
	})
	app.catalog.OnChange(app.sessions.OnCatalogChange)

	app.timers = timer.NewManager()
	app.admins = adminauth.NewRegistry()
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: poller.NewPoller(app.config),
		OnError: func(err error, c telebot.Context) {
			log.Printf("telegram: %v", err)
		},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bootstrapMiddlewareTelegram()
	app.bootstrapHandlersTelegram()

	app.scheduler = scheduler.New(app.retakes, &adminNotifier{bot: bot, chatIDs: app.config.TelegramBot.AdminChatIDs}, app.config.Scheduler.DigestInterval)
	if err := app.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go app.bot.Start()

	log.Printf("Telegram bot started in %s mode", app.config.TelegramBot.Mode)
	return nil
}

// bootstrapMiddlewareTelegram - регистрирует цепочку middleware
func (app *App) bootstrapMiddlewareTelegram() {
	if app.config.TelegramBot.Debug {
		app.bot.Use(middleware.Logger(log.New(os.Stdout, "[bot] ", log.LstdFlags)))
		app.bot.Use(middleware.DebugUserActions(true, app.sessions))
	}
	app.bot.Use(
		telebotMiddleware.AutoRespond(),
		middleware.Recover(log.New(os.Stderr, "[panic] ", log.LstdFlags), "Something went wrong. Please try again."),
	)
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	cfg := app.config

	// Экраны обучения
	app.bot.Handle("/start", start_handler.NewStartHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle("/login", login_handler.NewLoginHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle("/logout", logout_handler.NewLogoutHandler(app.sessions, app.timers).GetHandlerFunc())

	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnRefresh}, start_handler.NewStartHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnQuiz}, start_quiz_handler.NewStartQuizHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnAnswer}, answer_handler.NewAnswerHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnNext}, next_question_handler.NewNextQuestionHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnHub}, return_handler.NewReturnHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnReport}, generate_report_handler.NewGenerateReportHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnSubmit}, submit_report_handler.NewSubmitReportHandler(app.sessions, cfg.Remote.Timeout).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnAck},
		acknowledge_handler.NewAcknowledgeHandler(app.sessions, app.timers, app.catalog, cfg.Training.LogoutDelay, cfg.Server.PublicURL).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: screens.BtnLogout}, logout_handler.NewLogoutHandler(app.sessions, app.timers).GetHandlerFunc())

	// Вход администратора
	adminLogin := admin_login_handler.NewAdminLoginHandler(app.adminService, app.admins)
	app.bot.Handle("/admin", adminLogin.Login)
	app.bot.Handle("/admin_logout", adminLogin.Logout)

	// Просмотр: viewer и выше
	dashboard := reports_dashboard_handler.NewReportsDashboardHandler(app.remote, app.catalog, cfg.Server.PublicURL, cfg.Remote.Timeout)
	users := users_handler.NewUsersHandler(app.userService)
	questions := questions_handler.NewQuestionsHandler(app.catalog)
	retakes := retakes_handler.NewRetakesHandler(app.retakes, cfg.Remote.Timeout)

	view := app.bot.Group()
	view.Use(app.admins.Require(adminauth.LevelView))
	view.Handle("/reports", dashboard.Reports)
	view.Handle("/report", dashboard.Report)
	view.Handle("/export_csv", dashboard.ExportCSV)
	view.Handle("/export_xlsx", dashboard.ExportXLSX)
	view.Handle("/users", users.List)
	view.Handle("/questions", questions.List)
	view.Handle("/export_quizzes", questions.ExportJSON)
	view.Handle("/export_quizzes_xlsx", questions.ExportXLSX)
	view.Handle("/requests", retakes.List)

	// Изменение данных: editor и super
	edit := app.bot.Group()
	edit.Use(app.admins.Require(adminauth.LevelEdit))
	edit.Handle("/clear_reports", dashboard.Clear)
	edit.Handle("/add_user", users.Add)
	edit.Handle("/delete_user", users.Delete)
	edit.Handle("/set_status", users.SetStatus)
	edit.Handle("/add_question", questions.Add)
	edit.Handle("/edit_question", questions.Edit)
	edit.Handle("/delete_question", questions.Delete)
	edit.Handle(telebot.OnDocument, questions.Import)
	edit.Handle("/approve", retakes.Approve)
	edit.Handle("/deny", retakes.Deny)

	// Управление администраторами: только super
	admins := admins_handler.NewAdminsHandler(app.adminService)
	super := app.bot.Group()
	super.Use(app.admins.Require(adminauth.LevelSuper))
	super.Handle("/admins", admins.List)
	super.Handle("/add_admin", admins.Add)
	super.Handle("/delete_admin", admins.Delete)
}

// routes регистрирует обработчики REST API. Маршруты доступны как с префиксом /api, так и без него.
func (app *App) routes() http.Handler {
	mx := http.NewServeMux()

	mx.Handle("GET /reports", reports_handler.NewListReportsHandler(app.reportService))
	mx.Handle("POST /reports", reports_handler.NewSubmitReportHandler(app.reportService))
	mx.Handle("DELETE /reports", reports_handler.NewClearReportsHandler(app.reportService))
	mx.Handle("GET /reports/stats", report_stats_handler.NewReportStatsHandler(app.reportService))
	mx.Handle("GET /reports/export", export_reports_handler.NewExportReportsHandler(app.reportService, app.catalog))
	mx.Handle("GET /reports/{id}", report_detail_handler.NewReportDetailHandler(app.reportService, app.catalog, app.config.Server.PublicURL))
	mx.Handle("GET /reports/{id}/certificate", certificate_handler.NewCertificateHandler(app.reportService, app.catalog, app.config.Server.PublicURL))

	mx.Handle("GET /progress/{username}", progress_handler.NewGetProgressHandler(app.progressService))
	mx.Handle("POST /progress/{username}", progress_handler.NewSaveProgressHandler(app.progressService))
	mx.Handle("DELETE /progress/{username}", progress_handler.NewDeleteProgressHandler(app.progressService))

	root := http.NewServeMux()
	root.Handle("/", mx)
	root.Handle("/api/", http.StripPrefix("/api", mx))

	return httpError.LogRequests(httpError.CORS(app.config.Server.CORSOrigin, root))
}

// ListenAndServeHTTP запускает HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Report server listening on %s", app.server.Addr)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe запускает бота и, если внешний сервер отчетов не задан, HTTP сервер.
// Блокируется до отмены ctx.
func (app *App) ListenAndServe(ctx context.Context) error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	errCh := make(chan error, 1)
	if app.config.Remote.BaseURL == "" {
		// Запускаем HTTP сервер
		go func() {
			if err := app.ListenAndServeHTTP(); err != nil {
				errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown останавливает бота, HTTP сервер и фоновые задачи
func (app *App) Shutdown(ctx context.Context) error {
	var errs []error

	if app.bot != nil {
		app.bot.Stop()
	}
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.timers != nil {
		app.timers.Stop()
	}
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if app.syncer != nil {
		app.syncer.Close()
	}
	app.cancel()

	if app.db != nil {
		app.db.Close()
	}
	if closer, ok := app.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// adminNotifier рассылает сообщения в чаты администраторов из конфигурации
type adminNotifier struct {
	bot     *telebot.Bot
	chatIDs []int64
}

func (n *adminNotifier) NotifyAdmins(text string) error {
	var errs []error
	for _, id := range n.chatIDs {
		if _, err := n.bot.Send(&telebot.Chat{ID: id}, text); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
