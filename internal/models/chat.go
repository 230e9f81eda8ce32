package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage 一次问答的记录
// 仅用于审计和历史查询，回答时不会读取历史
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`  // 主键ID
	SessionID  string    `gorm:"not null;index"`            // 所属会话ID
	Message    string    `gorm:"type:text;not null"`        // 用户消息
	Intent     string    `gorm:"not null;type:varchar(20)"` // 查询意图
	Focus      string    `gorm:"type:text"`                 // 查询焦点
	Response   string    `gorm:"type:text;not null"`        // 回答文本
	Confidence float64   `gorm:"not null;default:0"`        // 置信度
	Source     string    `gorm:"not null;type:varchar(20)"` // 信息来源
	CreatedAt  time.Time `gorm:"not null;index"`            // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (cm *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if cm.CreatedAt.IsZero() {
		cm.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (ChatMessage) TableName() string {
	return "chat_messages"
}
