package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/doc-chatbot/api"
	"github.com/fyerfyer/doc-chatbot/api/handler"
	"github.com/fyerfyer/doc-chatbot/api/middleware"
	appconfig "github.com/fyerfyer/doc-chatbot/config"
	"github.com/fyerfyer/doc-chatbot/internal/cache"
	"github.com/fyerfyer/doc-chatbot/internal/database"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
	"github.com/fyerfyer/doc-chatbot/internal/repository"
	"github.com/fyerfyer/doc-chatbot/internal/responder"
	"github.com/fyerfyer/doc-chatbot/internal/services"
	"github.com/fyerfyer/doc-chatbot/internal/session"
	"github.com/fyerfyer/doc-chatbot/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 命令行选项
type options struct {
	Port       int    // 服务端口
	Mode       string // 运行模式 (debug/release)
	LogLevel   string // 日志级别
	ConfigFile string // 配置文件路径
}

func main() {
	opts := parseFlags()

	cfg, err := appconfig.Load(opts.ConfigFile)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, opts)

	gin.SetMode(cfg.Server.Mode)

	// 初始化日志
	logger, err := setupLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting document chatbot...")

	// 初始化数据库
	dbConfig := database.DefaultConfig()
	dbConfig.Type = cfg.Database.Type
	dbConfig.DSN = cfg.Database.DSN
	if err := database.Setup(dbConfig, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 会话文档存储
	sessionCache, err := setupCache(cfg.Session)
	if err != nil {
		logger.Fatalf("Failed to initialize session store: %v", err)
	}
	defer sessionCache.Close()
	sessions := session.NewStore(sessionCache, session.WithTTL(cfg.Session.TTL))

	// 文件存储
	fileStorage, err := setupStorage(cfg.Upload.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 语言资源只加载一次，由文本分析和查询分析共享
	resources, err := nlp.NewResources(nlp.WithExtraStopwords(cfg.NLP.ExtraStopwords...))
	if err != nil {
		logger.Fatalf("Failed to load language resources: %v", err)
	}

	documentService := services.NewDocumentService(
		fileStorage,
		nlp.NewTextAnalyzer(resources),
		sessions,
		services.WithLogger(logger),
		services.WithDocumentRepository(repository.NewDocumentRepository()),
		services.WithAllowedExtensions(cfg.Upload.AllowedExt...),
		services.WithMaxFileSize(cfg.Upload.MaxFileSize()),
	)
	if err := documentService.Init(); err != nil {
		logger.Fatalf("Failed to initialize document service: %v", err)
	}

	chatService := services.NewChatService(
		sessions,
		nlp.NewQueryAnalyzer(resources),
		responder.NewComposer(responder.WithMaxEditDistance(cfg.NLP.MaxEditDistance)),
		services.WithChatLogger(logger),
		services.WithChatRepository(repository.NewChatRepository()),
	)

	// 设置路由
	r := api.SetupRouter(
		handler.NewDocumentHandler(documentService),
		handler.NewChatHandler(chatService),
		api.WithCORS(cfg.Server.CORS),
		api.WithSessionConfig(middleware.SessionConfig{
			HeaderName: cfg.Session.HeaderName,
			CookieName: cfg.Session.CookieName,
			MaxAge:     int(cfg.Session.TTL / time.Second),
		}),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() options {
	opts := options{}

	flag.IntVar(&opts.Port, "port", 8080, "Server port")
	flag.StringVar(&opts.Mode, "mode", "debug", "Run mode (debug/release)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	flag.StringVar(&opts.ConfigFile, "config", "", "Path to config file")

	flag.Parse()
	return opts
}

// applyFlags 命令行上明确设置的参数覆盖配置文件
func applyFlags(cfg *appconfig.Config, opts options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = opts.Port
		case "mode":
			cfg.Server.Mode = opts.Mode
		case "log-level":
			cfg.Log.Level = opts.LogLevel
		}
	})
}

// setupLogger 设置日志系统
func setupLogger(cfg appconfig.LogConfig) (*logrus.Logger, error) {
	if err := middleware.SetupLogger(middleware.LogConfig{
		Level:      cfg.Level,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}); err != nil {
		return nil, err
	}
	return middleware.GetLogger(), nil
}

// setupCache 创建会话存储使用的缓存
func setupCache(cfg appconfig.SessionConfig) (cache.Cache, error) {
	return cache.NewCache(cache.Config{
		Type:            cfg.Backend,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		DefaultTTL:      cfg.TTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// setupStorage 设置文件存储服务
func setupStorage(cfg appconfig.StorageConfig) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type:  cfg.Type,
		Local: storage.LocalConfig{Path: cfg.Path},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		},
	})
}
