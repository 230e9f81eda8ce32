package model

import "time"

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// DocumentUploadResponse 文档上传响应
type DocumentUploadResponse struct {
	FileID    string `json:"file_id"`    // 文件ID
	FileName  string `json:"filename"`   // 文件名
	Status    string `json:"status"`     // 文档状态
	SessionID string `json:"session_id"` // 会话ID
	Sentences int    `json:"sentences"`  // 句子数量
	Keywords  int    `json:"keywords"`   // 关键词数量
	Entities  int    `json:"entities"`   // 实体数量
}

// DocumentInfo 文档信息
type DocumentInfo struct {
	FileID      string     `json:"file_id"`                // 文件ID
	FileName    string     `json:"filename"`               // 文件名
	FileType    string     `json:"file_type"`              // 文件类型
	FileSize    int64      `json:"file_size"`              // 文件大小
	Status      string     `json:"status"`                 // 状态
	Error       string     `json:"error,omitempty"`        // 错误信息
	Sentences   int        `json:"sentences"`              // 句子数量
	Keywords    []string   `json:"keywords"`               // 关键词
	Entities    []string   `json:"entities"`               // 实体
	UploadTime  time.Time  `json:"upload_time"`            // 上传时间
	ProcessedAt *time.Time `json:"processed_at,omitempty"` // 处理完成时间
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Total     int64          `json:"total"`     // 总数量
	Page      int            `json:"page"`      // 当前页码
	PageSize  int            `json:"page_size"` // 每页大小
	Documents []DocumentInfo `json:"documents"` // 文档列表
}

// ClearDocumentResponse 清除会话文档响应
type ClearDocumentResponse struct {
	Success   bool   `json:"success"`    // 是否成功
	SessionID string `json:"session_id"` // 会话ID
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"` // 服务状态
	Time   string `json:"time"`   // 服务器时间
}
