package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
// pdfcpu负责结构校验，文本提取使用ledongthuc/pdf
type PDFParser struct {
	validate bool
}

// PDFOption PDF解析器选项
type PDFOption func(*PDFParser)

// WithoutValidation 跳过pdfcpu结构校验
func WithoutValidation() PDFOption {
	return func(p *PDFParser) {
		p.validate = false
	}
}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser(opts ...PDFOption) Parser {
	p := &PDFParser{validate: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse 解析PDF文件并提取其文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析PDF内容
// PDF需要随机访问，内容会先整体读入内存
func (p *PDFParser) ParseReader(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf content: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	if p.validate {
		if err := ValidatePDF(bytes.NewReader(data)); err != nil {
			return "", err
		}
	}

	text, err := extractPDFText(data)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

// ValidatePDF 使用pdfcpu宽松模式校验PDF结构
func ValidatePDF(rs io.ReadSeeker) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(rs, conf); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return nil
}

// extractPDFText 按页顺序提取纯文本
func extractPDFText(data []byte) (text string, err error) {
	// 损坏的内容流可能导致解析库panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from pdf: %w", err)
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read extracted pdf text: %w", err)
	}
	return buf.String(), nil
}
