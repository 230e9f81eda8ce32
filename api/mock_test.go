package api

import (
	"context"
	"io"

	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/responder"
	"github.com/stretchr/testify/mock"
)

// mockDocumentService 文档服务的模拟实现
type mockDocumentService struct {
	mock.Mock
	maxSize int64
}

func (m *mockDocumentService) Upload(ctx context.Context, sessionID, filename string, size int64, r io.Reader) (*models.Document, error) {
	// 读完请求体，模拟真实服务的行为
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, sessionID, filename, size)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *mockDocumentService) Get(ctx context.Context, sessionID, id string) (*models.Document, error) {
	args := m.Called(ctx, sessionID, id)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *mockDocumentService) List(ctx context.Context, sessionID string, offset, limit int, status string) ([]*models.Document, int64, error) {
	args := m.Called(ctx, sessionID, offset, limit, status)
	docs, _ := args.Get(0).([]*models.Document)
	return docs, args.Get(1).(int64), args.Error(2)
}

func (m *mockDocumentService) ClearSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockDocumentService) MaxFileSize() int64 {
	if m.maxSize == 0 {
		return 16 << 20
	}
	return m.maxSize
}

// mockChatService 问答服务的模拟实现
type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) Chat(ctx context.Context, sessionID, message string) (responder.ResponseResult, error) {
	args := m.Called(ctx, sessionID, message)
	return args.Get(0).(responder.ResponseResult), args.Error(1)
}

func (m *mockChatService) History(ctx context.Context, sessionID string, offset, limit int) ([]*models.ChatMessage, int64, error) {
	args := m.Called(ctx, sessionID, offset, limit)
	messages, _ := args.Get(0).([]*models.ChatMessage)
	return messages, args.Get(1).(int64), args.Error(2)
}
