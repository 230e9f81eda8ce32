package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
	"github.com/fyerfyer/doc-chatbot/internal/repository"
	"github.com/fyerfyer/doc-chatbot/internal/responder"
	"github.com/fyerfyer/doc-chatbot/internal/session"
	"github.com/sirupsen/logrus"
)

// ChatService 问答服务
// 每条消息独立回答，只依赖会话的当前文档
type ChatService struct {
	sessions *session.Store            // 会话文档存储
	analyzer *nlp.QueryAnalyzer        // 查询分析器
	composer *responder.Composer       // 回答组装器
	repo     repository.ChatRepository // 问答记录，可为空
	logger   *logrus.Logger            // 日志记录器
}

// ChatOption 聊天服务配置选项
type ChatOption func(*ChatService)

// NewChatService 创建问答服务
func NewChatService(sessions *session.Store, analyzer *nlp.QueryAnalyzer, composer *responder.Composer, opts ...ChatOption) *ChatService {
	s := &ChatService{
		sessions: sessions,
		analyzer: analyzer,
		composer: composer,
		logger:   logrus.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithChatLogger 设置日志记录器
func WithChatLogger(logger *logrus.Logger) ChatOption {
	return func(s *ChatService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChatRepository 设置问答记录仓储
func WithChatRepository(repo repository.ChatRepository) ChatOption {
	return func(s *ChatService) {
		s.repo = repo
	}
}

// Chat 回答一条消息
// 没有找到相关内容不是错误，返回置信度0的结果
func (s *ChatService) Chat(ctx context.Context, sessionID, message string) (responder.ResponseResult, error) {
	doc, _, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return responder.ResponseResult{}, err
	}

	query := s.analyzer.Analyze(message)
	result := s.composer.Compose(query, doc)

	log := s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"intent":     query.Intent,
		"focus":      query.Focus,
		"confidence": result.ConfidenceString(),
		"source":     result.Source,
	})
	log.Debug("Message answered")

	if s.repo != nil {
		record := &models.ChatMessage{
			SessionID:  sessionID,
			Message:    message,
			Intent:     string(query.Intent),
			Focus:      query.Focus,
			Response:   result.Text,
			Confidence: result.Confidence,
			Source:     string(result.Source),
		}
		if err := s.repo.WithContext(ctx).Create(record); err != nil {
			log.WithError(err).Warn("Failed to record chat message")
		}
	}

	return result, nil
}

// History 按时间顺序返回会话的问答记录
func (s *ChatService) History(ctx context.Context, sessionID string, offset, limit int) ([]*models.ChatMessage, int64, error) {
	if s.repo == nil {
		return []*models.ChatMessage{}, 0, nil
	}

	messages, total, err := s.repo.WithContext(ctx).ListBySession(sessionID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chat history: %w", err)
	}
	return messages, total, nil
}
