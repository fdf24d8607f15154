package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/controller"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/service"
	"portfolio_backend/pkg/database"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"portfolio_backend/pkg/security"
	"portfolio_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	userLimiter     *security.UserRateLimiter
	ipLimiter       *security.IPRateLimiter
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	person         *repository.PersonRepository
	game           *repository.GameRepository
	blackjack      *repository.BlackjackRepository
	plant          *repository.PlantRepository
	progressBar    *repository.ProgressBarRepository
	lessonProgress *repository.LessonProgressRepository
	quest          *repository.QuestRepository
	quizScore      *repository.QuizScoreRepository
	resume         *repository.ResumeRepository
	rubric         *repository.RubricRepository
	evaluation     *repository.EvaluationRepository
	stats          *repository.StatsRepository
	player         *repository.PlayerRepository
	gemini         *repository.GeminiRepository
	userEvent      *repository.UserEventRepository
}

type services struct {
	person         *service.PersonService
	passwordReset  *service.PasswordResetService
	blackjack      *service.BlackjackService
	game           *service.GameService
	plant          *service.PlantService
	progressBar    *service.ProgressBarService
	lessonProgress *service.LessonProgressService
	quest          *service.QuestService
	quizScore      *service.QuizScoreService
	resume         *service.ResumeService
	rubric         *service.RubricService
	evaluation     *service.EvaluationService
	gemini         *service.GeminiService
	stats          *service.StatsService
	userEvent      *service.UserEventService
	storage        *service.StorageService
	groupChat      *service.GroupChatService
	runner         *service.RunnerService
	player         *service.PlayerService
	playerHub      *service.PlayerHub
}

type controllers struct {
	person         *controller.PersonController
	blackjack      *controller.BlackjackController
	game           *controller.GameController
	plant          *controller.PlantController
	progress       *controller.ProgressController
	lessonProgress *controller.LessonProgressController
	quest          *controller.QuestController
	quiz           *controller.QuizController
	resume         *controller.ResumeController
	rubric         *controller.RubricController
	evaluation     *controller.EvaluationController
	stats          *controller.StatsController
	gemini         *controller.GeminiController
	userEvent      *controller.UserEventController
	player         *controller.PlayerController
	groupChat      *controller.GroupChatController
	runner         *controller.RunnerController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

// ApplyConfig 配置热更新入口，由configwatcher回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		person:         repository.NewPersonRepository(db),
		game:           repository.NewGameRepository(db),
		blackjack:      repository.NewBlackjackRepository(db),
		plant:          repository.NewPlantRepository(db),
		progressBar:    repository.NewProgressBarRepository(db),
		lessonProgress: repository.NewLessonProgressRepository(db),
		quest:          repository.NewQuestRepository(db),
		quizScore:      repository.NewQuizScoreRepository(db),
		resume:         repository.NewResumeRepository(db),
		rubric:         repository.NewRubricRepository(db),
		evaluation:     repository.NewEvaluationRepository(db),
		stats:          repository.NewStatsRepository(db),
		player:         repository.NewPlayerRepository(db),
		gemini:         repository.NewGeminiRepository(db),
		userEvent:      repository.NewUserEventRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.person = service.NewPersonService(repos.person, cfg)
	s.passwordReset = service.NewPasswordResetService(
		repos.person,
		service.NewResetCodeStore(cfg.Reset.Secret),
		service.NewMailer(cfg.Mail),
		cfg,
	)

	s.blackjack = service.NewBlackjackService(db, repos.person, repos.blackjack, repos.game)
	s.game = service.NewGameService(repos.game, repos.person)
	s.plant = service.NewPlantService(repos.plant)
	s.progressBar = service.NewProgressBarService(repos.progressBar)
	s.lessonProgress = service.NewLessonProgressService(repos.lessonProgress)
	s.quest = service.NewQuestService(repos.quest)
	s.quizScore = service.NewQuizScoreService(repos.quizScore, rdb)
	s.resume = service.NewResumeService(repos.resume)
	s.rubric = service.NewRubricService(repos.rubric)
	s.evaluation = service.NewEvaluationService(repos.evaluation)

	s.gemini = service.NewGeminiService(repos.gemini, service.NewGeminiClient(cfg.Gemini))
	s.stats = service.NewStatsService(repos.stats, s.gemini)
	s.userEvent = service.NewUserEventService(repos.userEvent, service.NewGitHubClient(cfg.GitHub))

	s.storage = service.NewStorageService(cfg)
	s.groupChat = service.NewGroupChatService(s.storage)
	s.runner = service.NewRunnerService(cfg.Runner, nil)

	s.playerHub = service.NewPlayerHub(rdb)
	go s.playerHub.Run()
	s.player = service.NewPlayerService(repos.player, repos.person, rdb, s.playerHub)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		person: controller.NewPersonController(
			s.person,
			s.passwordReset,
			cfg.JWT.CookieName,
			int(cfg.JWT.ExpireTime/time.Second),
			cfg.Server.Mode == gin.ReleaseMode,
		),
		blackjack:      controller.NewBlackjackController(s.blackjack),
		game:           controller.NewGameController(s.game),
		plant:          controller.NewPlantController(s.plant),
		progress:       controller.NewProgressController(s.progressBar),
		lessonProgress: controller.NewLessonProgressController(s.lessonProgress),
		quest:          controller.NewQuestController(s.quest),
		quiz:           controller.NewQuizController(s.quizScore),
		resume:         controller.NewResumeController(s.resume),
		rubric:         controller.NewRubricController(s.rubric),
		evaluation:     controller.NewEvaluationController(s.evaluation),
		stats:          controller.NewStatsController(s.stats),
		gemini:         controller.NewGeminiController(s.gemini),
		userEvent:      controller.NewUserEventController(s.userEvent),
		player:         controller.NewPlayerController(s.player, s.playerHub),
		groupChat:      controller.NewGroupChatController(s.groupChat),
		runner:         controller.NewRunnerController(s.runner),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.ipLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloadHooks 可热更新的配置项：按用户限流阈值与代码沙箱参数
func (a *App) registerReloadHooks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.userLimiter.Configure(cfg.RateLimit.RequestsPerUser, cfg.RateLimit.UserWindow())
		a.ipLimiter.Configure(cfg.RateLimit.MaxRequests, cfg.RateLimit.IPWindow())
		logger.Log.Info("Per-user rate limit updated",
			zap.Int("limit", cfg.RateLimit.RequestsPerUser),
			zap.Duration("window", cfg.RateLimit.UserWindow()),
		)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.runner.UpdateConfig(cfg.Runner)
	})
}

func (a *App) startBackgroundTasks() {
	a.userLimiter.StartJanitor(time.Minute, a.stop)
	a.ipLimiter.StartJanitor(time.Minute, a.stop)
}

// New 组装应用但不启动HTTP服务，测试可直接使用Router
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		userLimiter: security.NewUserRateLimiter(cfg.RateLimit.RequestsPerUser, cfg.RateLimit.UserWindow()),
		ipLimiter:   security.NewIPRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.IPWindow(), "/metrics", "/api/health"),
		stop:        make(chan struct{}),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, cfg, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(logger.GinLogger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	app.registerReloadHooks(services)
	app.startBackgroundTasks()

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing without cache and pub/sub", zap.Error(err))
			rdb = nil
		}
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer("portfolio-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app := New(cfg, db, rdb)
	app.tracer = tp
	return app
}

// Shutdown 停止后台协程与WebSocket中心
func (a *App) Shutdown(ctx context.Context) {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	if a.services != nil && a.services.playerHub != nil {
		a.services.playerHub.Stop()
	}
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.Shutdown(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
