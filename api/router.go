package api

import (
	"net/http"
	"time"

	"github.com/fyerfyer/doc-chatbot/api/handler"
	"github.com/fyerfyer/doc-chatbot/api/middleware"
	"github.com/fyerfyer/doc-chatbot/api/model"
	"github.com/gin-gonic/gin"
)

// RouterOption 路由配置选项
type RouterOption func(*routerConfig)

type routerConfig struct {
	session middleware.SessionConfig
	cors    bool
}

// WithSessionConfig 设置会话标识的请求头和Cookie
func WithSessionConfig(cfg middleware.SessionConfig) RouterOption {
	return func(rc *routerConfig) {
		rc.session = cfg
	}
}

// WithCORS 启用跨域中间件
func WithCORS(enabled bool) RouterOption {
	return func(rc *routerConfig) {
		rc.cors = enabled
	}
}

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	docHandler *handler.DocumentHandler,
	chatHandler *handler.ChatHandler,
	opts ...RouterOption,
) *gin.Engine {
	cfg := &routerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	router := gin.New()

	// 全局中间件，ErrorHandler需要在TraceID之后
	if cfg.cors {
		router.Use(Cors(cfg.session.HeaderName))
	}
	router.Use(middleware.SetTraceID())
	router.Use(middleware.SessionID(cfg.session))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// 在调试模式下记录请求体和响应体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
		router.Use(middleware.ResponseLogger())
	}

	// 兼容旧的根路径端点
	router.POST("/upload", docHandler.UploadDocument)
	router.POST("/chat", chatHandler.Chat)

	api := router.Group("/api")
	{
		// 上传文档 - POST /api/upload
		api.POST("/upload", docHandler.UploadDocument)

		// 问答 - POST /api/chat
		api.POST("/chat", chatHandler.Chat)

		// 问答历史 - GET /api/chat/history
		api.GET("/chat/history", chatHandler.GetHistory)

		docGroup := api.Group("/documents")
		{
			// 获取文档列表 - GET /api/documents
			docGroup.GET("", docHandler.ListDocuments)

			// 获取文档 - GET /api/documents/:id
			docGroup.GET("/:id", docHandler.GetDocument)
		}

		// 清除会话文档 - DELETE /api/session/document
		api.DELETE("/session/document", docHandler.ClearDocument)

		// 健康检查 - GET /api/health
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, model.NewSuccessResponse(model.HealthResponse{
				Status: "ok",
				Time:   time.Now().Format(time.RFC3339),
			}))
		})
	}

	return router
}

// Cors 跨域资源共享中间件
func Cors(sessionHeader string) gin.HandlerFunc {
	if sessionHeader == "" {
		sessionHeader = middleware.DefaultSessionHeader
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID, "+sessionHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Trace-ID, "+sessionHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
