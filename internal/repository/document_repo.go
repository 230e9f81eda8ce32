package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyerfyer/doc-chatbot/internal/database"
	"github.com/fyerfyer/doc-chatbot/internal/models"
	"gorm.io/gorm"
)

// docRepository 文档仓储实现
type docRepository struct {
	db *gorm.DB // 数据库连接
}

// NewDocumentRepository 创建文档仓储实例
func NewDocumentRepository() DocumentRepository {
	return &docRepository{
		db: database.MustDB(),
	}
}

// NewDocumentRepositoryWithDB 使用指定的数据库连接创建文档仓储实例
func NewDocumentRepositoryWithDB(db *gorm.DB) DocumentRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &docRepository{
		db: db,
	}
}

// WithContext 创建带有上下文的仓储
func (r *docRepository) WithContext(ctx context.Context) DocumentRepository {
	return &docRepository{
		db: r.db.WithContext(ctx),
	}
}

// Create 创建文档记录
func (r *docRepository) Create(doc *models.Document) error {
	if doc.ID == "" {
		return models.ErrEmptyDocumentID
	}

	return r.db.Create(doc).Error
}

// Update 更新文档记录
func (r *docRepository) Update(doc *models.Document) error {
	if doc.ID == "" {
		return models.ErrEmptyDocumentID
	}
	if !doc.Status.Valid() {
		return models.ErrInvalidDocumentStatus
	}

	return r.db.Save(doc).Error
}

// GetByID 根据ID获取文档
func (r *docRepository) GetByID(id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
		}
		return nil, err
	}
	return &doc, nil
}

// List 列出文档列表，按上传时间倒序
func (r *docRepository) List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	var docs []*models.Document
	var total int64

	query := r.db.Model(&models.Document{})

	if sessionID, ok := filters["session_id"].(string); ok && sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	if status, ok := filters["status"]; ok {
		switch s := status.(type) {
		case models.DocumentStatus:
			query = query.Where("status = ?", string(s))
		case string:
			if s != "" {
				query = query.Where("status = ?", s)
			}
		default:
			query = query.Where("status = ?", fmt.Sprintf("%v", status))
		}
	}

	if fileName, ok := filters["file_name"].(string); ok && fileName != "" {
		query = query.Where("file_name LIKE ?", "%"+fileName+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Delete 删除文档记录
func (r *docRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
	}
	return nil
}
