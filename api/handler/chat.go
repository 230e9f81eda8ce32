package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fyerfyer/doc-chatbot/api/middleware"
	"github.com/fyerfyer/doc-chatbot/api/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 聊天相关的错误消息
const (
	MsgNoMessage   = "No message provided"
	MsgInvalidJSON = "Invalid JSON body"
)

// ChatHandler 处理聊天相关的API请求
type ChatHandler struct {
	chatService ChatService    // 问答服务
	logger      *logrus.Logger // 日志记录器
}

// NewChatHandler 创建新的聊天处理器
func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      middleware.GetLogger(),
	}
}

// Chat 回答一条消息
// POST /api/chat
// message字段缺失时返回400，空字符串按正常消息处理
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			middleware.HandleError(c, middleware.NewValidationError(MsgNoMessage))
			return
		}
		middleware.HandleError(c, middleware.NewValidationError(MsgInvalidJSON, err.Error()))
		return
	}
	if req.Message == nil {
		middleware.HandleError(c, middleware.NewValidationError(MsgNoMessage))
		return
	}

	sessionID := middleware.GetSessionID(c)
	result, err := h.chatService.Chat(c.Request.Context(), sessionID, *req.Message)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to answer message", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ChatResponse{
		Response:   result.Text,
		Confidence: result.ConfidenceString(),
		Source:     string(result.Source),
	}))
}

// GetHistory 获取当前会话的问答记录
// GET /api/chat/history
func (h *ChatHandler) GetHistory(c *gin.Context) {
	var req model.ChatHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError(MsgInvalidParameters, err.Error()))
		return
	}

	sessionID := middleware.GetSessionID(c)
	messages, total, err := h.chatService.History(c.Request.Context(), sessionID, req.Offset(), req.GetPageSize())
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to get chat history", err.Error()))
		return
	}

	infos := make([]model.ChatMessageInfo, 0, len(messages))
	for _, m := range messages {
		infos = append(infos, model.ChatMessageInfo{
			ID:         m.ID,
			Message:    m.Message,
			Intent:     m.Intent,
			Focus:      m.Focus,
			Response:   m.Response,
			Confidence: strconv.FormatFloat(m.Confidence, 'f', 1, 64),
			Source:     m.Source,
			CreatedAt:  m.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ChatHistoryResponse{
		SessionID: sessionID,
		Total:     total,
		Page:      req.GetPage(),
		PageSize:  req.GetPageSize(),
		Messages:  infos,
	}))
}
