package handler

import (
	"context"
	"io"

	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/responder"
)

// DocumentService 处理器依赖的文档服务
type DocumentService interface {
	Upload(ctx context.Context, sessionID, filename string, size int64, r io.Reader) (*models.Document, error)
	Get(ctx context.Context, sessionID, id string) (*models.Document, error)
	List(ctx context.Context, sessionID string, offset, limit int, status string) ([]*models.Document, int64, error)
	ClearSession(ctx context.Context, sessionID string) error
	MaxFileSize() int64
}

// ChatService 处理器依赖的问答服务
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (responder.ResponseResult, error)
	History(ctx context.Context, sessionID string, offset, limit int) ([]*models.ChatMessage, int64, error)
}
