// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dao"
	"github.com/haierkeys/projectforge-office-service/internal/middleware"
	"github.com/haierkeys/projectforge-office-service/internal/service"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/editguard"
	"github.com/haierkeys/projectforge-office-service/pkg/listview"
	"github.com/haierkeys/projectforge-office-service/pkg/mailer"
	"github.com/haierkeys/projectforge-office-service/pkg/tracer"
	"github.com/haierkeys/projectforge-office-service/pkg/workerpool"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 列表缓存与防重复提交
	editGuard *editguard.Registry
	listStore *listview.Store

	registry     *prometheus.Registry
	tracer       opentracing.Tracer
	tracerCloser io.Closer
	mailSender   mailer.Sender

	// Service 层
	UserService         service.UserService
	ContractService     service.ContractService
	OutgoingMailService service.OutgoingMailService
	IncomingMailService service.IncomingMailService
	VisitorbookService  service.VisitorbookService
	HealthService       service.HealthService
	ReminderService     service.ReminderService
	DBUtils             *service.DBUtils

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// Option 可选依赖
type Option func(*App)

// WithMailSender 替换邮件发送器
func WithMailSender(s mailer.Sender) Option {
	return func(a *App) {
		a.mailSender = s
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		registry:   prometheus.NewRegistry(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if a.mailSender == nil {
		if cfg.Mail.Host != "" {
			a.mailSender = mailer.NewSMTPSender(cfg.GetMailConfig())
		} else {
			a.mailSender = mailer.NopSender{}
		}
	}

	t, closer, err := tracer.New(tracer.Config{
		ServiceName:   Name,
		AgentHostPort: cfg.Tracer.JaegerAgent,
		SampleRate:    cfg.Tracer.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	a.tracer, a.tracerCloser = t, closer

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(wqConfig, logger)

	a.editGuard = editguard.New(cfg.GetEditFormTTL(), a.registry)
	a.listStore = listview.NewStore(cfg.GetListViewIdleTime(), listview.NewMetrics(a.registry))

	// 初始化 DAO（使用依赖注入）
	dbConfig := cfg.GetDatabaseConfig()
	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(&dbConfig),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "projectforge-office-service",
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 Repository 层
	userRepo := dao.NewUserRepository(a.Dao)
	deps := service.EntityDeps{
		HistoryRepo: dao.NewHistoryRepository(a.Dao),
		UserRepo:    userRepo,
		PrefRepo:    dao.NewUserPrefRepository(a.Dao),
		Guard:       a.editGuard,
		Lists:       a.listStore,
		Logger:      logger,
	}

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
		},
		Contract: service.ContractServiceConfig{
			Types: cfg.Contract.Types,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.UserService = service.NewUserService(userRepo, a.TokenManager, logger, svcConfig)
	a.ContractService = service.NewContractService(dao.NewContractRepository(a.Dao), deps, svcConfig.Contract)
	a.OutgoingMailService = service.NewOutgoingMailService(dao.NewOutgoingMailRepository(a.Dao), deps)
	a.IncomingMailService = service.NewIncomingMailService(dao.NewIncomingMailRepository(a.Dao), deps)
	a.VisitorbookService = service.NewVisitorbookService(dao.NewVisitorbookRepository(a.Dao), deps)
	a.HealthService = service.NewHealthService(db, a.workerPool, a.writeQueueMgr, a.listStore, a.editGuard)
	a.ReminderService = service.NewReminderService(a.ContractService, a.mailSender, service.ReminderConfig{
		Recipients: cfg.Contract.ReminderRecipients,
		Subject:    cfg.Contract.ReminderSubject,
	}, logger)
	a.DBUtils = service.NewDBUtils(db)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.tracerCloser != nil {
		_ = a.tracerCloser.Close()
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Registry 应用的 prometheus 指标注册表
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Tracer 请求追踪使用的 tracer
func (a *App) Tracer() opentracing.Tracer {
	return a.tracer
}

// MailSender 邮件发送器
func (a *App) MailSender() mailer.Sender {
	return a.mailSender
}

// PaginationConfig 分页配置
func (a *App) PaginationConfig() pkgapp.PaginationConfig {
	return pkgapp.PaginationConfig{
		DefaultPageSize: a.config.App.DefaultPageSize,
		MaxPageSize:     a.config.App.MaxPageSize,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// EditGuard 编辑表单注册表
func (a *App) EditGuard() *editguard.Registry {
	return a.editGuard
}

// ListStore 列表视图存储
func (a *App) ListStore() *listview.Store {
	return a.listStore
}

// ReportPanic 未处理异常的邮件通知，通过 Worker Pool 异步发送
// support.enabled 为 false 或没有收件人时只记录日志
func (a *App) ReportPanic(report middleware.PanicReport) {
	cfg := a.config.Support
	if !cfg.Enabled || len(cfg.Recipients) == 0 {
		return
	}
	msg := mailer.Message{
		To:      cfg.Recipients,
		Subject: fmt.Sprintf("%s %s %s", cfg.Subject, report.Method, report.Path),
		Body:    report.Text(),
	}
	err := a.workerPool.Go("support-mail", func(ctx context.Context) error {
		return a.mailSender.Send(ctx, msg)
	})
	if err != nil {
		a.logger.Warn("support mail not queued", zap.String("traceId", report.TraceID), zap.Error(err))
	}
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
