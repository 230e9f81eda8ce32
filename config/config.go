package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	NLP      NLPConfig      `mapstructure:"nlp"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`                                     // 服务器主机
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`          // 服务器端口
	Mode         string        `mapstructure:"mode" validate:"oneof=debug release test"` // 运行模式
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`                             // 读取超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`                            // 写入超时
	CORS         bool          `mapstructure:"cors"`                                     // 是否启用跨域
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxSizeMB  int           `mapstructure:"max_size_mb" validate:"min=1"` // 文件大小上限（MB）
	AllowedExt []string      `mapstructure:"allowed_ext" validate:"min=1"` // 允许的扩展名
	Storage    StorageConfig `mapstructure:"storage"`                      // 文件存储
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type" validate:"oneof=local minio"` // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`                              // 本地存储路径
	Bucket    string `mapstructure:"bucket"`                            // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"`                          // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// SessionConfig 会话配置
type SessionConfig struct {
	Backend         string        `mapstructure:"backend" validate:"oneof=memory redis"` // 会话存储：memory 或 redis
	TTL             time.Duration `mapstructure:"ttl"`                                   // 会话文档过期时间
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`                      // 内存存储清理间隔
	RedisAddr       string        `mapstructure:"redis_addr"`                            // Redis地址
	RedisPassword   string        `mapstructure:"redis_password"`                        // Redis密码
	RedisDB         int           `mapstructure:"redis_db" validate:"min=0"`             // Redis数据库编号
	HeaderName      string        `mapstructure:"header_name"`                           // 会话ID请求头
	CookieName      string        `mapstructure:"cookie_name"`                           // 会话ID Cookie名
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"oneof=sqlite"` // 数据库类型
	DSN  string `mapstructure:"dsn" validate:"required"`      // 数据源名称
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`         // 日志文件，为空时只输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个文件大小上限
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的旧文件数
	MaxAgeDays int    `mapstructure:"max_age_days"` // 保留天数
	Compress   bool   `mapstructure:"compress"`     // 是否压缩
}

// NLPConfig 文本分析配置
type NLPConfig struct {
	MaxEditDistance int      `mapstructure:"max_edit_distance" validate:"min=0"` // 模糊匹配最大编辑距离
	ExtraStopwords  []string `mapstructure:"extra_stopwords"`                    // 额外停用词
}

// MaxFileSize 上传大小上限（字节）
func (c UploadConfig) MaxFileSize() int64 {
	return int64(c.MaxSizeMB) << 20
}

// Load 从文件和环境变量加载配置
// 配置文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml" // 默认在当前目录寻找config.yaml
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logrus.Warnf("Config file not found at %s, using defaults", configPath)
	} else {
		logrus.Infof("Using config file: %s", v.ConfigFileUsed())
	}

	// 支持环境变量覆盖，例如 SERVER_PORT、SESSION_BACKEND
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expandEnvironmentVariables(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Session.Backend == "redis" && c.Session.RedisAddr == "" {
		return errors.New("invalid config: session.redis_addr is required for redis backend")
	}
	if c.Upload.Storage.Type == "minio" && (c.Upload.Storage.Endpoint == "" || c.Upload.Storage.Bucket == "") {
		return errors.New("invalid config: upload.storage endpoint and bucket are required for minio")
	}
	return nil
}

// expandEnvironmentVariables 替换 ${VAR} 形式的敏感配置
func expandEnvironmentVariables(cfg *Config) {
	for _, s := range []*string{
		&cfg.Session.RedisPassword,
		&cfg.Upload.Storage.AccessKey,
		&cfg.Upload.Storage.SecretKey,
	} {
		*s = expandEnv(*s)
	}
}

func expandEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	if envVal := os.Getenv(value[2 : len(value)-1]); envVal != "" {
		return envVal
	}
	return value
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.cors", false)

	// 上传默认配置
	v.SetDefault("upload.max_size_mb", 16)
	v.SetDefault("upload.allowed_ext", []string{".pdf"})
	v.SetDefault("upload.storage.type", "local")
	v.SetDefault("upload.storage.path", "./uploads")
	v.SetDefault("upload.storage.bucket", "docchat")
	v.SetDefault("upload.storage.use_ssl", false)

	// 会话默认配置
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "10m")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.header_name", "X-Session-ID")
	v.SetDefault("session.cookie_name", "session_id")

	// 数据库默认配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/docchat.db")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// 文本分析默认配置
	v.SetDefault("nlp.max_edit_distance", 2)
	v.SetDefault("nlp.extra_stopwords", []string{})
}
