package services

import (
	"errors"

	"github.com/fyerfyer/doc-chatbot/internal/models"
)

var (
	// ErrNoFile 请求中没有文件
	ErrNoFile = errors.New("no file provided")
	// ErrEmptyFileName 文件名为空
	ErrEmptyFileName = errors.New("no file selected")
	// ErrUnsupportedFileType 文件类型不在允许列表中
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrFileTooLarge 文件超过大小上限
	ErrFileTooLarge = errors.New("file too large")
	// ErrTextExtraction 无法从文件中提取可分析的文本
	ErrTextExtraction = errors.New("could not extract text from file")
	// ErrDocumentNotFound 上传记录不存在
	ErrDocumentNotFound = models.ErrDocumentNotFound
)
