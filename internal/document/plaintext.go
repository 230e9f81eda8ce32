package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// PlainTextParser 纯文本解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文件
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open text file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader读取纯文本，内容必须是UTF-8
func (p *PlainTextParser) ParseReader(r io.Reader, _ string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text content: %w", err)
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("text content is not valid utf-8")
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", ErrEmptyContent
	}

	return string(content), nil
}
