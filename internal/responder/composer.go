package responder

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/fyerfyer/doc-chatbot/internal/nlp"
)

// Source 回答的信息来源
type Source string

const (
	// SourceDocument 回答来自文档句子
	SourceDocument Source = "document"
	// SourceNone 没有找到相关内容
	SourceNone Source = "none"
)

// 固定回复文本
const (
	MsgNoInformation = "I couldn't find any relevant information in the document."
	MsgNoAnswer      = "I couldn't find a specific answer to your question."
)

// 置信度取值，启发式匹配只产生这两个值
const (
	ConfidenceNone  = 0.0
	ConfidenceMatch = 0.8
)

// DefaultMaxEditDistance 模糊匹配允许的最大编辑距离
const DefaultMaxEditDistance = 2

// ResponseResult 回答结果
type ResponseResult struct {
	Text       string  `json:"text"`       // 回答文本
	Confidence float64 `json:"confidence"` // 置信度
	Source     Source  `json:"source"`     // 信息来源
}

// ConfidenceString 置信度的字符串形式，例如 "0.8"、"0.0"
func (r ResponseResult) ConfidenceString() string {
	return strconv.FormatFloat(r.Confidence, 'f', 1, 64)
}

// Composer 回答组装器
// 根据查询结构在文档句子中查找相关句子并拼接回答，无状态，可并发使用
type Composer struct {
	maxDistance int
}

// Option 组装器配置选项
type Option func(*Composer)

// WithMaxEditDistance 设置模糊匹配的最大编辑距离
func WithMaxEditDistance(d int) Option {
	return func(c *Composer) {
		if d >= 0 {
			c.maxDistance = d
		}
	}
}

// NewComposer 创建回答组装器
func NewComposer(opts ...Option) *Composer {
	c := &Composer{maxDistance: DefaultMaxEditDistance}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose 组装回答
// "没有找到"是正常结果（置信度0、来源none），不是错误
func (c *Composer) Compose(query nlp.QueryStructure, doc nlp.DocumentStructure) ResponseResult {
	if len(doc.Sentences) == 0 {
		return ResponseResult{Text: MsgNoInformation, Confidence: ConfidenceNone, Source: SourceNone}
	}

	relevant := c.FindRelevantSentences(query.Focus, doc.Sentences)
	if len(relevant) == 0 {
		return ResponseResult{Text: MsgNoAnswer, Confidence: ConfidenceNone, Source: SourceNone}
	}

	return ResponseResult{
		Text:       ConstructResponse(query.Intent, relevant),
		Confidence: ConfidenceMatch,
		Source:     SourceDocument,
	}
}

// FindRelevantSentences 查找与焦点相关的句子，保持原顺序，每句最多一次
// 先做不区分大小写的子串匹配，失败后逐对比较焦点词和句中词的编辑距离
func (c *Composer) FindRelevantSentences(focus string, sentences []string) []string {
	focusWords := uniqueWords(focus)
	if len(focusWords) == 0 {
		return nil
	}

	var relevant []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		if containsAny(lower, focusWords) || c.fuzzyMatch(focusWords, uniqueWords(sentence)) {
			relevant = append(relevant, sentence)
		}
	}

	return relevant
}

// fuzzyMatch 任意一对词的编辑距离不超过阈值即匹配
// 短词之间容易误匹配（如 is/it），这是已知的精度问题
func (c *Composer) fuzzyMatch(focusWords, sentenceWords []string) bool {
	for _, fw := range focusWords {
		for _, sw := range sentenceWords {
			if levenshtein.ComputeDistance(fw, sw) <= c.maxDistance {
				return true
			}
		}
	}
	return false
}

// ConstructResponse 根据意图拼接最多两个相关句子
func ConstructResponse(intent nlp.Intent, relevant []string) string {
	if len(relevant) == 0 {
		return ""
	}

	var b strings.Builder
	if intent == nlp.IntentQuestion {
		b.WriteString("Based on the document, ")
		b.WriteString(relevant[0])
		if len(relevant) > 1 {
			b.WriteString(" Additionally, ")
			b.WriteString(relevant[1])
		}
	} else {
		b.WriteString(relevant[0])
		if len(relevant) > 1 {
			b.WriteString(" ")
			b.WriteString(relevant[1])
		}
	}

	return strings.TrimSpace(b.String())
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// uniqueWords 小写后按空白切分并去重，保留首次出现顺序
func uniqueWords(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
