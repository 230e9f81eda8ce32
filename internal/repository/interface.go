package repository

import (
	"context"

	"github.com/fyerfyer/doc-chatbot/internal/models"
)

// DocumentRepository 上传记录仓储接口
type DocumentRepository interface {
	// Create 创建文档记录
	Create(doc *models.Document) error

	// Update 更新文档记录
	Update(doc *models.Document) error

	// GetByID 根据ID获取文档
	GetByID(id string) (*models.Document, error)

	// List 列出文档列表，支持分页和筛选
	// 支持的筛选键: session_id, status, file_name
	List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error)

	// Delete 删除文档
	Delete(id string) error

	// WithContext 创建带有上下文的仓储
	WithContext(ctx context.Context) DocumentRepository
}

// ChatRepository 问答记录仓储接口
type ChatRepository interface {
	// Create 追加一条问答记录
	Create(message *models.ChatMessage) error

	// ListBySession 按时间顺序列出会话的问答记录
	ListBySession(sessionID string, offset, limit int) ([]*models.ChatMessage, int64, error)

	// CountBySession 统计会话的问答记录数量
	CountBySession(sessionID string) (int64, error)

	// WithContext 创建带有上下文的仓储
	WithContext(ctx context.Context) ChatRepository
}
