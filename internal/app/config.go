// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dao"
	"github.com/haierkeys/projectforge-office-service/pkg/mailer"
	"github.com/haierkeys/projectforge-office-service/pkg/util"
	"github.com/haierkeys/projectforge-office-service/pkg/workerpool"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 覆盖配置项的环境变量前缀
const EnvPrefix = "PF_"

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Mail     MailConfig     `yaml:"mail"`
	Support  SupportConfig  `yaml:"support"`
	Contract ContractConfig `yaml:"contract"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，默认为 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics、expvar、pprof）
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
	// CorsAllowOrigins 允许跨域的来源，"*" 表示全部
	CorsAllowOrigins []string `yaml:"cors-allow-origins"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"projectforge-office-Auth-Token"`
	TokenExpiry  string `yaml:"token-expiry" default:"7d"` // Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	// LoginRateLimit 每个实例每分钟允许的登录与注册请求数
	LoginRateLimit int64 `yaml:"login-rate-limit" default:"30"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/office.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// Replicas 只读副本
	Replicas []string `yaml:"replicas"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时），默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，支持格式：10m（分钟）、1h（小时），默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool `yaml:"register-is-enable" default:"false"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"50"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"500"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// ListViewIdleTime 列表缓存空闲多久后回收
	ListViewIdleTime string `yaml:"list-view-idle-time" default:"30m"`
	// EditFormTTL 编辑表单令牌有效期
	EditFormTTL string `yaml:"edit-form-ttl" default:"8h"`
	// SweepInterval 列表缓存、表单令牌与写队列的清理间隔
	SweepInterval string `yaml:"sweep-interval" default:"5m"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"64"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址，为空时不上报 span
	JaegerAgent string `yaml:"jaeger-agent"`
	// SampleRate 采样比例
	SampleRate float64 `yaml:"sample-rate" default:"1"`
}

// MailConfig SMTP 配置，Host 为空时不发送邮件
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"587"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// SupportConfig 未处理异常的支持团队通知
type SupportConfig struct {
	Enabled    bool     `yaml:"enabled" default:"false"`
	Recipients []string `yaml:"recipients"`
	Subject    string   `yaml:"subject" default:"[office] internal error"`
}

// ContractConfig 合同配置
type ContractConfig struct {
	// Types 允许的合同类型，为空时不限制
	Types []string `yaml:"types"`
	// ReminderCron 再提交提醒的 cron 表达式，为空时不提醒
	ReminderCron string `yaml:"reminder-cron" default:"0 7 * * 1-5"`
	// ReminderRecipients 提醒收件人
	ReminderRecipients []string `yaml:"reminder-recipients"`
	// ReminderSubject 提醒邮件主题
	ReminderSubject string `yaml:"reminder-subject" default:"Contract resubmission"`
}

// LoadConfig 从文件加载配置
// 配置文件同目录或工作目录下的 .env 会先被载入，PF_* 环境变量覆盖文件中的值
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 先设置默认值，YAML 中出现的键覆盖默认值，显式的 false 也会保留
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(realpath), ".env"), ".env"); err != nil {
		return nil, realpath, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, realpath, err
	}

	return c, realpath, nil
}

// loadDotEnv 载入存在的 .env 文件，已经设置的环境变量不会被覆盖
func loadDotEnv(files ...string) error {
	seen := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if err := godotenv.Load(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "load %s failed", abs)
		}
	}
	return nil
}

// applyEnv 使用 PF_* 环境变量覆盖配置，主要用于密码和密钥
func (c *AppConfig) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_HTTP_PORT":        &c.Server.HttpPort,
		"SERVER_RUN_MODE":         &c.Server.RunMode,
		"LOG_LEVEL":               &c.Log.Level,
		"DATABASE_TYPE":           &c.Database.Type,
		"DATABASE_PATH":           &c.Database.Path,
		"DATABASE_HOST":           &c.Database.Host,
		"DATABASE_NAME":           &c.Database.Name,
		"DATABASE_USERNAME":       &c.Database.UserName,
		"DATABASE_PASSWORD":       &c.Database.Password,
		"SECURITY_AUTH_TOKEN_KEY": &c.Security.AuthTokenKey,
		"TRACER_JAEGER_AGENT":     &c.Tracer.JaegerAgent,
		"MAIL_HOST":               &c.Mail.Host,
		"MAIL_USERNAME":           &c.Mail.Username,
		"MAIL_PASSWORD":           &c.Mail.Password,
		"MAIL_FROM":               &c.Mail.From,
	}
	for key, ptr := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*ptr = v
		}
	}

	if v, ok := lookup(EnvPrefix + "MAIL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sMAIL_PORT", EnvPrefix)
		}
		c.Mail.Port = port
	}
	if v, ok := lookup(EnvPrefix + "USER_REGISTER_IS_ENABLE"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%sUSER_REGISTER_IS_ENABLE", EnvPrefix)
		}
		c.User.RegisterIsEnable = enabled
	}
	if v, ok := lookup(EnvPrefix + "SUPPORT_RECIPIENTS"); ok {
		c.Support.Recipients = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDatabaseConfig 转换为 dao 层的数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		Charset:         c.Database.Charset,
		SSLMode:         c.Database.SSLMode,
		ParseTime:       c.Database.ParseTime,
		Replicas:        c.Database.Replicas,
		AutoMigrate:     c.Database.AutoMigrate,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	return workerpool.Config{
		MaxWorkers: c.App.WorkerPoolMaxWorkers,
		QueueSize:  c.App.WorkerPoolQueueSize,
	}
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	return writequeue.Config{
		QueueCapacity: c.App.WriteQueueCapacity,
		WriteTimeout:  util.MustParseDuration(c.App.WriteQueueTimeout, 30*time.Second),
		IdleTimeout:   util.MustParseDuration(c.App.WriteQueueIdleTime, 10*time.Minute),
	}
}

// GetMailConfig 获取 SMTP 配置
func (c *AppConfig) GetMailConfig() mailer.Config {
	return mailer.Config{
		Host:     c.Mail.Host,
		Port:     c.Mail.Port,
		Username: c.Mail.Username,
		Password: c.Mail.Password,
		From:     c.Mail.From,
	}
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.TokenExpiry, 7*24*time.Hour)
}

// GetListViewIdleTime 列表缓存空闲回收时间
func (c *AppConfig) GetListViewIdleTime() time.Duration {
	return util.MustParseDuration(c.App.ListViewIdleTime, 30*time.Minute)
}

// GetEditFormTTL 编辑表单令牌有效期
func (c *AppConfig) GetEditFormTTL() time.Duration {
	return util.MustParseDuration(c.App.EditFormTTL, 8*time.Hour)
}

// GetSweepInterval 清理任务间隔
func (c *AppConfig) GetSweepInterval() time.Duration {
	return util.MustParseDuration(c.App.SweepInterval, 5*time.Minute)
}
