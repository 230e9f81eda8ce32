package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 全局数据库连接
var DB *gorm.DB

// ErrNotInitialized 数据库尚未初始化
var ErrNotInitialized = errors.New("database not initialized")

// Config 数据库配置
type Config struct {
	Type          string        // 数据库类型，目前只支持sqlite
	DSN           string        // 数据源名称，文件路径或 file:xxx?mode=memory
	MaxOpenConns  int           // 最大打开连接数
	MaxIdleConns  int           // 最大空闲连接数
	MaxLifetime   time.Duration // 连接最大生命周期
	BusyTimeout   time.Duration // 写锁等待时间
	SlowThreshold time.Duration // 慢查询阈值
}

// DefaultConfig 返回默认数据库配置
func DefaultConfig() *Config {
	return &Config{
		Type:          "sqlite",
		DSN:           "data/docchat.db",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		MaxLifetime:   time.Hour,
		BusyTimeout:   5 * time.Second,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// Setup 打开数据库、迁移模型并设置全局连接
func Setup(cfg *Config, log *logrus.Logger) error {
	db, err := Open(cfg, log)
	if err != nil {
		return err
	}
	DB = db

	log.WithFields(logrus.Fields{
		"type": cfg.Type,
		"dsn":  cfg.DSN,
	}).Info("Database connection established successfully")
	return nil
}

// Open 打开数据库连接并迁移上传记录和问答记录表
func Open(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	if cfg.Type != "sqlite" {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	if !isMemoryDSN(cfg.DSN) {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg)), &gorm.Config{
		Logger: newGormLogger(log, cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}

// Close 关闭全局数据库连接
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// MustDB 返回全局数据库连接，未初始化时panic
func MustDB() *gorm.DB {
	if DB == nil {
		panic(ErrNotInitialized)
	}
	return DB
}

// AutoMigrate 自动迁移数据库模型
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Document{},
		&models.ChatMessage{},
	)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// sqliteDSN 为文件数据库加上忙等待和WAL参数
// 上传记录和问答记录来自并发请求，默认配置下容易出现 database is locked
func sqliteDSN(cfg *Config) string {
	if isMemoryDSN(cfg.DSN) || strings.Contains(cfg.DSN, "?") {
		return cfg.DSN
	}

	timeout := cfg.BusyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", cfg.DSN, timeout.Milliseconds())
}

func newGormLogger(log *logrus.Logger, slow time.Duration) logger.Interface {
	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}

	return logger.New(
		&logrusWriter{log},
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// logrusWriter 将GORM日志转发到logrus
type logrusWriter struct {
	logger *logrus.Logger
}

// Printf 实现logger.Writer接口
// 调试模式下GORM会输出每条SQL，其余情况只有慢查询和错误
func (w *logrusWriter) Printf(format string, args ...interface{}) {
	entry := w.logger.WithField("component", "gorm")
	if w.logger.IsLevelEnabled(logrus.DebugLevel) {
		entry.Debugf(format, args...)
		return
	}
	entry.Warnf(format, args...)
}
