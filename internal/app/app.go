package app

import (
	"codex_backend/internal/config"
	"codex_backend/internal/controller"
	"codex_backend/internal/middleware"
	"codex_backend/internal/repository"
	"codex_backend/internal/service"
	"codex_backend/pkg/configwatcher"
	"codex_backend/pkg/database"
	"codex_backend/pkg/logger"
	"codex_backend/pkg/monitoring"
	"codex_backend/pkg/security"
	"codex_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	quota           *security.DailyQuota
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	history *repository.HistoryRepository
}

type services struct {
	ai       *service.AIService
	syntax   *service.SyntaxService
	analysis *service.AnalysisService
	history  *service.HistoryService
}

type controllers struct {
	analysis *controller.AnalysisController
	history  *controller.HistoryController
	health   *controller.HealthController
}

// Dependencies 外部资源，测试中可以替换模型客户端
type Dependencies struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Model  service.ModelClient
	Tracer *sdktrace.TracerProvider
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		history: repository.NewHistoryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, model service.ModelClient) *services {
	s := &services{
		syntax: service.NewSyntaxService(),
	}

	if model == nil {
		s.ai = service.NewAIService(cfg.AI)
		model = s.ai
	}

	s.analysis = service.NewAnalysisService(model, s.syntax)
	s.history = service.NewHistoryService(repos.history, cfg.History.ListLimit)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		analysis: controller.NewAnalysisController(s.analysis),
		history:  controller.NewHistoryController(s.history),
		health:   controller.NewHealthController(db, rdb, a.Config.Server.Version),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery(cfg.IsDebug()))
	router.Use(middleware.RequestLogger())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, a.stop))
	router.Use(security.BodyLimit(cfg.Server.MaxBodyBytes))
}

// New 用已建立的外部资源组装应用
func New(cfg *config.Config, deps Dependencies) *App {
	app := &App{
		Config: cfg,
		DB:     deps.DB,
		Redis:  deps.Redis,
		tracer: deps.Tracer,
		stop:   make(chan struct{}),
		quota:  security.NewDailyQuota(deps.Redis, cfg.RateLimit.DailyAnalyzeQuota),
	}

	repos := app.initRepositories(deps.DB)
	app.services = app.initServices(repos, cfg, deps.Model)
	controllers := app.initControllers(app.services, deps.DB, deps.Redis)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	app.RegisterConfigCallback(app.applyConfig)

	return app
}

// NewApp 按配置连接数据库、Redis 和追踪后端
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// debug 模式启动时自动迁移，release 模式需要显式指定
	migrate := cfg.IsDebug() || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer(context.Background(), cfg.Tracing.Exporter, cfg.Tracing.CollectorEndpoint, cfg.Server.Version)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
	}

	return New(cfg, Dependencies{DB: db, Redis: rdb, Tracer: tp}), nil
}

// applyConfig 只热更新模型参数和配额，其余配置需要重启
func (a *App) applyConfig(cfg *config.Config) {
	if a.services.ai != nil {
		a.services.ai.UpdateConfig(cfg.AI)
	}
	a.quota.SetLimit(cfg.RateLimit.DailyAnalyzeQuota)
	logger.Log.Info("Runtime config applied",
		zap.String("model", cfg.AI.Model),
		zap.Duration("timeout", cfg.AI.Timeout),
		zap.Int("daily_analyze_quota", cfg.RateLimit.DailyAnalyzeQuota),
	)
}

func (a *App) reload(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Serve 启动 HTTP 服务，ctx 取消后优雅退出
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	if a.Config.ConfigFile != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.Config.ConfigFile, a.reload); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port), zap.String("mode", a.Config.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.Close()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Close()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.Close()
	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放后台协程、parser、追踪、Redis 和数据库连接
func (a *App) Close() {
	select {
	case <-a.stop:
		return
	default:
		close(a.stop)
	}

	if a.services != nil && a.services.syntax != nil {
		a.services.syntax.Close()
	}

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	_ = logger.Log.Sync()
}
