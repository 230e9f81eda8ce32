package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentStatus 文档处理状态类型
type DocumentStatus string

const (
	// DocStatusProcessing 文档处理中
	DocStatusProcessing DocumentStatus = "processing"
	// DocStatusCompleted 文档分析完成，已成为会话的当前文档
	DocStatusCompleted DocumentStatus = "completed"
	// DocStatusFailed 文档处理失败
	DocStatusFailed DocumentStatus = "failed"
)

// Valid 状态是否为已知取值
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocStatusProcessing, DocStatusCompleted, DocStatusFailed:
		return true
	}
	return false
}

// Document 上传记录
// 分析结果本身保存在会话存储中，这里只记录元数据和统计
type Document struct {
	ID            string         `gorm:"primaryKey"`         // 文档ID，主键
	SessionID     string         `gorm:"not null;index"`     // 上传所属会话
	FileName      string         `gorm:"not null"`           // 原始文件名
	FileType      string         `gorm:"not null"`           // 文件类型
	FilePath      string         `gorm:"not null"`           // 存储路径
	FileSize      int64          `gorm:"not null"`           // 文件大小（字节）
	Status        DocumentStatus `gorm:"not null;index"`     // 处理状态
	Error         string         `gorm:"type:text"`          // 错误信息
	SentenceCount int            `gorm:"not null;default:0"` // 句子数量
	KeywordCount  int            `gorm:"not null;default:0"` // 关键词数量
	EntityCount   int            `gorm:"not null;default:0"` // 实体数量
	Keywords      datatypes.JSON `gorm:"type:json"`          // 关键词列表
	Entities      datatypes.JSON `gorm:"type:json"`          // 实体列表
	UploadedAt    time.Time      `gorm:"not null;index"`     // 上传时间
	ProcessedAt   *time.Time     `gorm:"index"`              // 处理完成时间
	UpdatedAt     time.Time      `gorm:"not null"`           // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if d.UploadedAt.IsZero() {
		d.UploadedAt = now
	}
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = DocStatusProcessing
	}
	if !d.Status.Valid() {
		return ErrInvalidDocumentStatus
	}
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (d *Document) BeforeUpdate(tx *gorm.DB) (err error) {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (Document) TableName() string {
	return "documents"
}

// SetAnalysis 记录分析统计，关键词和实体以JSON数组保存
func (d *Document) SetAnalysis(sentences int, keywords, entities []string) error {
	kw, err := json.Marshal(nonNil(keywords))
	if err != nil {
		return err
	}
	ents, err := json.Marshal(nonNil(entities))
	if err != nil {
		return err
	}

	d.SentenceCount = sentences
	d.KeywordCount = len(keywords)
	d.EntityCount = len(entities)
	d.Keywords = datatypes.JSON(kw)
	d.Entities = datatypes.JSON(ents)
	return nil
}

// KeywordList 解码关键词列表
func (d *Document) KeywordList() []string {
	return decodeList(d.Keywords)
}

// EntityList 解码实体列表
func (d *Document) EntityList() []string {
	return decodeList(d.Entities)
}

func decodeList(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
