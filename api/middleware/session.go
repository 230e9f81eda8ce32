package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 会话相关默认值
const (
	ContextSessionID     = "SessionID"
	DefaultSessionHeader = "X-Session-ID"
	DefaultSessionCookie = "session_id"
)

// SessionConfig 会话标识配置
type SessionConfig struct {
	HeaderName string // 会话ID请求头
	CookieName string // 会话ID Cookie名
	MaxAge     int    // Cookie有效期（秒）
}

// SessionID 会话标识中间件
// 依次从请求头和Cookie读取会话ID，都没有时生成新的，并通过响应头和Cookie回传
func SessionID(cfg SessionConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultSessionHeader
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}

	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(cfg.HeaderName))
		if sessionID == "" {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				sessionID = strings.TrimSpace(cookie)
			}
		}
		if sessionID == "" || len(sessionID) > 128 {
			sessionID = uuid.New().String()
		}

		c.Set(ContextSessionID, sessionID)
		c.Header(cfg.HeaderName, sessionID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, cfg.MaxAge, "/", "", false, true)

		c.Next()
	}
}

// GetSessionID 获取当前请求的会话ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
