package nlp

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// QueryAnalyzer 查询分析器
// 识别用户查询的意图和焦点
type QueryAnalyzer struct {
	res *Resources
}

// NewQueryAnalyzer 创建查询分析器
func NewQueryAnalyzer(res *Resources) *QueryAnalyzer {
	return &QueryAnalyzer{res: res}
}

// Analyze 分析查询
// 没有可识别的语言结构时返回 (statement, "")
func (a *QueryAnalyzer) Analyze(query string) QueryStructure {
	result := QueryStructure{
		Intent: a.DetectIntent(query),
		Focus:  "",
	}
	if strings.TrimSpace(query) == "" {
		return result
	}

	doc, ok := newDocument(query,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if !ok {
		return result
	}

	result.Focus = DetectFocus(retagQuery(doc.Tokens()))
	return result
}

// DetectIntent 任一词为疑问词即为疑问句，找到第一个即停止
func (a *QueryAnalyzer) DetectIntent(query string) Intent {
	for _, word := range words(query) {
		if a.res.IsQuestionWord(word) {
			return IntentQuestion
		}
	}
	return IntentStatement
}

// DetectFocus 返回第一个主语、直接宾语或介词宾语名词短语
func DetectFocus(tokens []prose.Token) string {
	for _, chunk := range NounChunks(tokens) {
		if chunk.Role != RoleNone {
			return chunk.Text
		}
	}
	return ""
}

// imperativeVerbs 查询句首常见的祈使动词，句首大写时标注器容易标成名词
var imperativeVerbs = map[string]struct{}{
	"explain": {}, "tell": {}, "describe": {}, "summarize": {}, "summarise": {},
	"define": {}, "list": {}, "show": {}, "give": {}, "find": {}, "compare": {},
}

// retagQuery 修正标注器在短查询上的常见错误，返回新的token切片
//   - 句首祈使动词标为动词：Explain cloud computing
//   - do 疑问句中助动词与句末实义动词之间的部分标为名词：How does cloud computing work?
func retagQuery(tokens []prose.Token) []prose.Token {
	out := make([]prose.Token, len(tokens))
	copy(out, tokens)
	if len(out) == 0 {
		return out
	}

	if _, ok := imperativeVerbs[strings.ToLower(out[0].Text)]; ok {
		if isNounTag(out[0].Tag) || strings.HasPrefix(out[0].Tag, "JJ") {
			out[0].Tag = "VB"
		}
	}

	retagDoQuestion(out)
	return out
}

// retagDoQuestion 处理 [疑问词] do/does/did <主语> <动词> [标点] 结构
func retagDoQuestion(tokens []prose.Token) {
	aux := -1
	for i, tok := range tokens {
		switch strings.ToLower(tok.Text) {
		case "do", "does", "did":
			if i == 0 || strings.HasPrefix(tokens[i-1].Tag, "W") {
				aux = i
			}
		}
		if aux >= 0 {
			break
		}
	}
	if aux < 0 {
		return
	}

	end := len(tokens)
	for end > aux+1 && isPunct(tokens[end-1]) {
		end--
	}
	verb := end - 1
	if verb <= aux+1 || !isOpenClass(tokens[verb].Tag) {
		return
	}
	for i := aux + 1; i < verb; i++ {
		if !isOpenClass(tokens[i].Tag) && !isChunkTag(tokens, i) {
			return
		}
	}

	for i := aux + 1; i < verb; i++ {
		tag := tokens[i].Tag
		if isVerbTag(tag) || tag == "RB" {
			tokens[i].Tag = "NN"
		}
	}
	tokens[verb].Tag = "VB"
}

// isOpenClass 名词、形容词、动词或副词
func isOpenClass(tag string) bool {
	return isNounTag(tag) || isVerbTag(tag) || strings.HasPrefix(tag, "JJ") || tag == "RB"
}

// words 按非字母字符切分并小写
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
