package models

import "errors"

var (
	// ErrDocumentNotFound 上传记录不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidDocumentStatus 文档状态不是 processing/completed/failed 之一
	ErrInvalidDocumentStatus = errors.New("invalid document status")
	// ErrEmptyDocumentID 上传记录缺少ID
	ErrEmptyDocumentID = errors.New("document ID cannot be empty")
	// ErrEmptySessionID 问答记录缺少会话ID
	ErrEmptySessionID = errors.New("session ID cannot be empty")
)
