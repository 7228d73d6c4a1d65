// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/fileurl"
	"github.com/haierkeys/projectforge-office-service/pkg/util"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型: sqlite / mysql / postgres
	Type string
	// Path sqlite 文件路径
	Path     string
	UserName string
	Password string
	// Host 主机地址，mysql/postgres 使用 host:port
	Host    string
	Name    string
	Charset string
	// SSLMode postgres 的 sslmode
	SSLMode   string
	ParseTime bool
	// Replicas 只读副本的 DSN（sqlite 为文件路径）
	Replicas        []string
	AutoMigrate     bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao 持有数据库连接与写队列
type Dao struct {
	db         *gorm.DB
	ctx        context.Context
	config     *DatabaseConfig
	logger     *zap.Logger
	writeQueue *writequeue.Manager
	onceKeys   sync.Map
}

// Option Dao 的可选配置
type Option func(*Dao)

// WithConfig 设置数据库配置
func WithConfig(cfg *DatabaseConfig) Option {
	return func(d *Dao) {
		d.config = cfg
	}
}

// WithLogger 设置日志器
func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = lg
	}
}

// WithWriteQueueManager 设置写队列，未设置时写操作直接执行
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueue = m
	}
}

// New 创建 Dao
func New(db *gorm.DB, ctx context.Context, opts ...Option) *Dao {
	d := &Dao{
		db:     db,
		ctx:    ctx,
		config: &DatabaseConfig{AutoMigrate: true},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB 返回底层连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Logger 返回日志器
func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// UseWithOnceFunc 返回数据库连接，key 首次使用时执行 f（通常是表迁移）
func (d *Dao) UseWithOnceFunc(f func(*gorm.DB), key string) *gorm.DB {
	if d.config.AutoMigrate {
		once, _ := d.onceKeys.LoadOrStore(key, &sync.Once{})
		once.(*sync.Once).Do(func() {
			f(d.db)
		})
	}
	return d.db
}

// ExecuteWrite 通过写队列串行执行写操作，lane 相同的写入按提交顺序执行
func (d *Dao) ExecuteWrite(ctx context.Context, lane string, fn func(ctx context.Context, db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(ctx, d.db.WithContext(ctx))
	}
	return d.writeQueue.Execute(ctx, lane, func(ctx context.Context) error {
		return fn(ctx, d.db.WithContext(ctx))
	})
}

// NewDBEngineWithConfig 根据配置打开数据库
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := openDialector(c, "")
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}
	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, dsn := range c.Replicas {
			r, err := openDialector(c, dsn)
			if err != nil {
				return nil, fmt.Errorf("replica %q: %w", dsn, err)
			}
			replicas = append(replicas, r)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, err
		}
		if lg != nil {
			lg.Info("database read replicas registered", zap.Int("count", len(replicas)))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if c.Type == "sqlite" {
		// sqlite 只有一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
	}
	sqlDB.SetConnMaxLifetime(util.MustParseDuration(c.ConnMaxLifetime, 10*time.Minute))
	sqlDB.SetConnMaxIdleTime(util.MustParseDuration(c.ConnMaxIdleTime, 5*time.Minute))

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil && lg != nil {
		lg.Warn("gorm tracing plugin", zap.Error(err))
	}

	return db, nil
}

// openDialector dsn 为空时根据配置拼接
func openDialector(c DatabaseConfig, dsn string) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		if dsn == "" {
			charset := c.Charset
			if charset == "" {
				charset = "utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
				c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		if dsn == "" {
			host, port, err := net.SplitHostPort(c.Host)
			if err != nil {
				host, port = c.Host, "5432"
			}
			sslmode := c.SSLMode
			if sslmode == "" {
				sslmode = "disable"
			}
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				host, port, c.UserName, c.Password, c.Name, sslmode)
		}
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if dsn == "" {
			dsn = c.Path
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			dir := filepath.Dir(dsn)
			if !fileurl.IsExist(dir) {
				if err := fileurl.CreatePath(dir, os.ModePerm); err != nil {
					return nil, err
				}
			}
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}
