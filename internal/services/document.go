package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fyerfyer/doc-chatbot/internal/document"
	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
	"github.com/fyerfyer/doc-chatbot/internal/repository"
	"github.com/fyerfyer/doc-chatbot/internal/session"
	"github.com/fyerfyer/doc-chatbot/pkg/storage"
	"github.com/sirupsen/logrus"
)

// DefaultMaxFileSize 默认上传大小上限 16MB
const DefaultMaxFileSize int64 = 16 << 20

// DocumentService 文档服务
// 负责上传文件的校验、保存、文本提取和分析，分析结果成为会话的当前文档
type DocumentService struct {
	storage    storage.Storage                                // 文件存储服务
	analyzer   *nlp.TextAnalyzer                              // 文本分析器
	sessions   *session.Store                                 // 会话文档存储
	repo       repository.DocumentRepository                  // 上传记录存储
	parserFor  func(filename string) (document.Parser, error) // 解析器工厂
	allowedExt map[string]struct{}                            // 允许的扩展名
	maxSize    int64                                          // 文件大小上限（字节）
	logger     *logrus.Logger                                 // 日志记录器
}

// DocumentOption 文档服务配置选项
type DocumentOption func(*DocumentService)

// NewDocumentService 创建一个新的文档服务
func NewDocumentService(
	store storage.Storage,
	analyzer *nlp.TextAnalyzer,
	sessions *session.Store,
	opts ...DocumentOption,
) *DocumentService {
	srv := &DocumentService{
		storage:    store,
		analyzer:   analyzer,
		sessions:   sessions,
		parserFor:  document.ParserFactory,
		allowedExt: map[string]struct{}{".pdf": {}},
		maxSize:    DefaultMaxFileSize,
		logger:     logrus.New(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) DocumentOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDocumentRepository 设置文档仓储
func WithDocumentRepository(repo repository.DocumentRepository) DocumentOption {
	return func(s *DocumentService) {
		s.repo = repo
	}
}

// WithAllowedExtensions 设置允许上传的扩展名，例如 ".pdf", ".md"
func WithAllowedExtensions(exts ...string) DocumentOption {
	return func(s *DocumentService) {
		allowed := make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			allowed[ext] = struct{}{}
		}
		if len(allowed) > 0 {
			s.allowedExt = allowed
		}
	}
}

// WithMaxFileSize 设置上传大小上限
func WithMaxFileSize(bytes int64) DocumentOption {
	return func(s *DocumentService) {
		if bytes > 0 {
			s.maxSize = bytes
		}
	}
}

// WithParserFactory 替换解析器工厂
func WithParserFactory(factory func(filename string) (document.Parser, error)) DocumentOption {
	return func(s *DocumentService) {
		if factory != nil {
			s.parserFor = factory
		}
	}
}

// Init 初始化文档服务
// 确保必要的依赖都已设置
func (s *DocumentService) Init() error {
	if s.repo == nil {
		s.repo = repository.NewDocumentRepository()
	}
	if s.storage == nil || s.analyzer == nil || s.sessions == nil {
		return errors.New("document service requires storage, analyzer and session store")
	}
	return nil
}

// MaxFileSize 上传大小上限
func (s *DocumentService) MaxFileSize() int64 {
	return s.maxSize
}

// Upload 处理一次上传
// 成功时分析结果整体替换会话的当前文档；任何失败都不会修改会话
func (s *DocumentService) Upload(ctx context.Context, sessionID, filename string, size int64, r io.Reader) (*models.Document, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	name := strings.TrimSpace(filepath.Base(strings.ReplaceAll(filename, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return nil, ErrEmptyFileName
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := s.allowedExt[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	if size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, s.maxSize)
	}

	log := s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"file_name":  name,
	})

	// 多读一个字节用于判断是否超限
	info, err := s.storage.Save(ctx, io.LimitReader(r, s.maxSize+1), name)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if info.Size > s.maxSize {
		if delErr := s.storage.Delete(ctx, info.ID); delErr != nil {
			log.WithError(delErr).Warn("Failed to remove oversized upload")
		}
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrFileTooLarge, s.maxSize)
	}

	log = log.WithField("file_id", info.ID)

	doc := &models.Document{
		ID:        info.ID,
		SessionID: sessionID,
		FileName:  name,
		FileType:  strings.TrimPrefix(ext, "."),
		FilePath:  info.Path,
		FileSize:  info.Size,
		Status:    models.DocStatusProcessing,
	}
	repo := s.repo.WithContext(ctx)
	if err := repo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	structure, err := s.extract(ctx, info.ID, name)
	if err != nil {
		s.markFailed(repo, doc, err, log)
		return doc, fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}

	if err := doc.SetAnalysis(len(structure.Sentences), structure.Keywords, structure.Entities); err != nil {
		s.markFailed(repo, doc, err, log)
		return doc, fmt.Errorf("failed to encode analysis: %w", err)
	}

	if err := s.sessions.Replace(ctx, sessionID, structure); err != nil {
		s.markFailed(repo, doc, err, log)
		return doc, err
	}

	now := time.Now()
	doc.Status = models.DocStatusCompleted
	doc.ProcessedAt = &now
	if err := repo.Update(doc); err != nil {
		log.WithError(err).Error("Failed to update document record")
	}

	log.WithFields(logrus.Fields{
		"sentences": doc.SentenceCount,
		"keywords":  doc.KeywordCount,
		"entities":  doc.EntityCount,
	}).Info("Document analyzed")

	return doc, nil
}

// extract 读取已保存的文件并分析
func (s *DocumentService) extract(ctx context.Context, fileID, filename string) (nlp.DocumentStructure, error) {
	parser, err := s.parserFor(filename)
	if err != nil {
		return nlp.DocumentStructure{}, err
	}

	rc, err := s.storage.Get(ctx, fileID)
	if err != nil {
		return nlp.DocumentStructure{}, err
	}
	defer rc.Close()

	text, err := parser.ParseReader(rc, filename)
	if err != nil {
		return nlp.DocumentStructure{}, err
	}

	structure := s.analyzer.Analyze(text)
	if structure.IsEmpty() {
		return nlp.DocumentStructure{}, document.ErrEmptyContent
	}
	return structure, nil
}

func (s *DocumentService) markFailed(repo repository.DocumentRepository, doc *models.Document, cause error, log *logrus.Entry) {
	now := time.Now()
	doc.Status = models.DocStatusFailed
	doc.Error = cause.Error()
	doc.ProcessedAt = &now
	if err := repo.Update(doc); err != nil {
		log.WithError(err).Error("Failed to update document record")
	}
	log.WithError(cause).Warn("Document processing failed")
}

// Get 获取会话自己的上传记录，其他会话的记录视为不存在
func (s *DocumentService) Get(ctx context.Context, sessionID, id string) (*models.Document, error) {
	doc, err := s.repo.WithContext(ctx).GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc.SessionID != sessionID {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// List 列出上传记录，sessionID为空时列出全部
func (s *DocumentService) List(ctx context.Context, sessionID string, offset, limit int, status string) ([]*models.Document, int64, error) {
	filters := map[string]interface{}{}
	if sessionID != "" {
		filters["session_id"] = sessionID
	}
	if status != "" {
		filters["status"] = status
	}
	return s.repo.WithContext(ctx).List(offset, limit, filters)
}

// ClearSession 清除会话的当前文档，之后的问答回到空文档状态
func (s *DocumentService) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session document: %w", err)
	}
	s.logger.WithField("session_id", sessionID).Info("Session document cleared")
	return nil
}
