package document

import "errors"

var (
	// ErrUnsupportedType 不支持的文档类型
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyContent 文档中没有可提取的文本
	ErrEmptyContent = errors.New("no text content found in document")
	// ErrInvalidPDF PDF文件结构无效
	ErrInvalidPDF = errors.New("invalid pdf file")
)
