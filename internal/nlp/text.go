package nlp

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// TextAnalyzer 文本分析器
// 将原始文档文本转换为句子、关键词和命名实体
type TextAnalyzer struct {
	res *Resources
}

// NewTextAnalyzer 创建文本分析器
func NewTextAnalyzer(res *Resources) *TextAnalyzer {
	return &TextAnalyzer{res: res}
}

// Analyze 分析文本
// 空文本或无法识别的文本返回空结构，不会失败
func (a *TextAnalyzer) Analyze(text string) DocumentStructure {
	result := DocumentStructure{
		Sentences: []string{},
		Keywords:  []string{},
		Entities:  []string{},
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	doc, ok := newDocument(text)
	if !ok {
		return result
	}

	for _, sent := range doc.Sentences() {
		s := strings.TrimSpace(sent.Text)
		if s != "" {
			result.Sentences = append(result.Sentences, s)
		}
	}

	result.Keywords = a.keywords(doc.Tokens())
	result.Entities = entities(doc.Entities())

	return result
}

// keywords 提取关键词：去掉停用词和标点，小写后去重
func (a *TextAnalyzer) keywords(tokens []prose.Token) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		word := strings.ToLower(strings.TrimSpace(tok.Text))
		if word == "" || isPunctText(word) || a.res.IsStopword(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return keywords
}

// entities 收集实体表面文本并去重
func entities(ents []prose.Entity) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(ents))

	for _, ent := range ents {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		result = append(result, text)
	}

	return result
}

// isPunctText 整个token都由标点或符号组成
func isPunctText(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
