package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillcheck_backend/internal/config"
	"skillcheck_backend/internal/controller"
	"skillcheck_backend/internal/repository"
	"skillcheck_backend/internal/service"
	"skillcheck_backend/internal/util"
	"skillcheck_backend/pkg/database"
	"skillcheck_backend/pkg/logger"
	"skillcheck_backend/pkg/monitoring"
	"skillcheck_backend/pkg/security"
	"skillcheck_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	test       *repository.TestRepository
	submission *repository.SubmissionRepository
	technology *repository.TechnologyRepository
	stats      *repository.StatsRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	user       *service.UserService
	test       *service.TestService
	technology *service.TechnologyService
	submission *service.SubmissionService
	performer  *service.PerformerService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	test       *controller.TestController
	technology *controller.TechnologyController
	submission *controller.SubmissionController
	performer  *controller.PerformerController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，逐个通知已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	cache := repository.NewPerformerCache(rdb, util.PerformerCacheTTL)
	return &repositories{
		user:       repository.NewUserRepository(db),
		test:       repository.NewTestRepository(db),
		submission: repository.NewSubmissionRepository(db),
		technology: repository.NewTechnologyRepository(db),
		stats:      repository.NewStatsRepository(db, cache),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.technology, s.storage)
	s.technology = service.NewTechnologyService(repos.technology)
	s.test = service.NewTestService(repos.test, repos.technology)
	s.performer = service.NewPerformerService(repos.user, repos.test, repos.stats)
	s.submission = service.NewSubmissionService(repos.test, repos.submission, repos.user, s.performer, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		test:       controller.NewTestController(s.test),
		technology: controller.NewTechnologyController(s.technology),
		submission: controller.NewSubmissionController(s.submission),
		performer:  controller.NewPerformerController(s.performer, s.test, s.submission),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 周期任务：生命周期扫描、超时提交定稿、周之星过期清理、进步榜重算
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if _, err := s.test.SweepLifecycle(); err != nil {
				logger.Log.Error("lifecycle sweep error", zap.Error(err))
			}
			if err := s.submission.ForceFinalizeStale(); err != nil {
				logger.Log.Error("stale submission sweep error", zap.Error(err))
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if _, err := s.performer.ClearExpiredPerformers(); err != nil {
				logger.Log.Error("performer expiry error", zap.Error(err))
			}
			if _, err := s.performer.RecomputeLeaderboard(context.Background()); err != nil {
				logger.Log.Error("leaderboard recompute error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillcheck-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
