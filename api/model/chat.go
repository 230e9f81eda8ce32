package model

import "time"

// ChatRequest 聊天请求
// Message为指针以区分缺失字段和空字符串
type ChatRequest struct {
	Message *string `json:"message"` // 用户消息
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Response   string `json:"response"`   // 回答文本
	Confidence string `json:"confidence"` // 置信度，"0.8" 或 "0.0"
	Source     string `json:"source"`     // 信息来源：document 或 none
}

// ChatHistoryRequest 聊天历史请求
type ChatHistoryRequest struct {
	PaginationRequest
}

// ChatMessageInfo 一条问答记录
type ChatMessageInfo struct {
	ID         uint      `json:"id"`         // 记录ID
	Message    string    `json:"message"`    // 用户消息
	Intent     string    `json:"intent"`     // 查询意图
	Focus      string    `json:"focus"`      // 查询焦点
	Response   string    `json:"response"`   // 回答文本
	Confidence string    `json:"confidence"` // 置信度
	Source     string    `json:"source"`     // 信息来源
	CreatedAt  time.Time `json:"created_at"` // 创建时间
}

// ChatHistoryResponse 聊天历史响应
type ChatHistoryResponse struct {
	SessionID string            `json:"session_id"` // 会话ID
	Total     int64             `json:"total"`      // 总数量
	Page      int               `json:"page"`       // 当前页码
	PageSize  int               `json:"page_size"`  // 每页大小
	Messages  []ChatMessageInfo `json:"messages"`   // 问答记录
}
