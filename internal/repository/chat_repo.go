package repository

import (
	"context"

	"github.com/fyerfyer/doc-chatbot/internal/database"
	"github.com/fyerfyer/doc-chatbot/internal/models"
	"gorm.io/gorm"
)

// chatRepo 问答记录仓储实现
type chatRepo struct {
	db *gorm.DB // 数据库连接
}

// NewChatRepository 创建聊天仓储实例
func NewChatRepository() ChatRepository {
	return &chatRepo{
		db: database.MustDB(),
	}
}

// NewChatRepositoryWithDB 使用指定的数据库连接创建聊天仓储实例
func NewChatRepositoryWithDB(db *gorm.DB) ChatRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &chatRepo{
		db: db,
	}
}

// WithContext 创建带有上下文的仓储
func (r *chatRepo) WithContext(ctx context.Context) ChatRepository {
	return &chatRepo{
		db: r.db.WithContext(ctx),
	}
}

// Create 追加一条问答记录
func (r *chatRepo) Create(message *models.ChatMessage) error {
	if message.SessionID == "" {
		return models.ErrEmptySessionID
	}
	return r.db.Create(message).Error
}

// ListBySession 按时间顺序列出会话的问答记录
func (r *chatRepo) ListBySession(sessionID string, offset, limit int) ([]*models.ChatMessage, int64, error) {
	var messages []*models.ChatMessage
	var total int64

	query := r.db.Model(&models.ChatMessage{}).Where("session_id = ?", sessionID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// CountBySession 统计会话的问答记录数量
func (r *chatRepo) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
