package document

import (
	"fmt"
	stdhtml "html"
	"io"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	// 读取文件
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open markdown file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析Markdown内容
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %w", err)
	}

	// 创建Markdown解析器
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	// 解析Markdown内容
	doc := mdParser.Parse(content)

	// 创建HTML渲染器
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	// 将Markdown转换为HTML
	htmlContent := markdown.Render(doc, renderer)

	// 从HTML中提取纯文本（简单处理，移除HTML标签）
	plainText := extractTextFromHTML(string(htmlContent))
	if plainText == "" {
		return "", ErrEmptyContent
	}

	return plainText, nil
}

// extractTextFromHTML 从HTML中提取纯文本
// 块级元素结束处补句号，避免标题和列表项与后文并成一句
func extractTextFromHTML(content string) string {
	var b strings.Builder
	rest := content
	for {
		start := strings.IndexByte(rest, '<')
		if start == -1 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '>')
		if end == -1 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])
		tag := tagName(rest[start+1 : start+end])
		if _, ok := blockEnds[tag]; ok {
			terminate(&b)
		}
		if _, ok := inlineTags[strings.TrimPrefix(tag, "/")]; !ok {
			b.WriteByte(' ')
		}
		rest = rest[start+end+1:]
	}

	return normalizeWhitespace(stdhtml.UnescapeString(b.String()))
}

var blockEnds = map[string]struct{}{
	"/p": {}, "/li": {}, "/td": {}, "/th": {}, "/blockquote": {}, "/pre": {},
	"/h1": {}, "/h2": {}, "/h3": {}, "/h4": {}, "/h5": {}, "/h6": {},
}

var inlineTags = map[string]struct{}{
	"a": {}, "b": {}, "i": {}, "em": {}, "strong": {}, "code": {},
	"del": {}, "sub": {}, "sup": {}, "span": {}, "mark": {},
}

// tagName 取出标签名，例如 `h1 id="x"` 返回 h1
func tagName(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, " \t\n/"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

// terminate 文本末尾没有句末标点时补一个句号
func terminate(b *strings.Builder) {
	text := strings.TrimRight(b.String(), " \t\r\n")
	if text == "" {
		return
	}
	switch text[len(text)-1] {
	case '.', '!', '?', ':', ';':
		return
	}
	b.Reset()
	b.WriteString(text)
	b.WriteByte('.')
}

// normalizeWhitespace 将连续空白合并为单个空格
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
