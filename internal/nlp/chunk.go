package nlp

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// Role 名词短语在句中的语法角色
type Role string

const (
	RoleNone    Role = ""      // 不属于关心的角色
	RoleSubject Role = "nsubj" // 主语
	RoleObject  Role = "dobj"  // 直接宾语
	RolePrepObj Role = "pobj"  // 介词宾语
)

// NounChunk 名词短语
type NounChunk struct {
	Text  string // 短语文本
	Start int    // 起始token下标
	End   int    // 结束token下标（不含）
	Role  Role   // 语法角色
}

// NounChunks 基于词性标注切分名词短语，并按前后词性推断语法角色
// 结果按短语在句中出现的顺序排列
func NounChunks(tokens []prose.Token) []NounChunk {
	var chunks []NounChunk

	i := 0
	for i < len(tokens) {
		start, end, ok := nextChunk(tokens, i)
		if !ok {
			break
		}
		chunks = append(chunks, NounChunk{
			Text:  joinTokens(tokens[start:end]),
			Start: start,
			End:   end,
			Role:  chunkRole(tokens, start, end),
		})
		i = end
	}

	return chunks
}

// nextChunk 从from开始查找下一个名词短语，短语必须以名词或人称代词结尾
func nextChunk(tokens []prose.Token, from int) (int, int, bool) {
	for start := from; start < len(tokens); start++ {
		tag := tokens[start].Tag

		// 人称代词单独成块
		if tag == "PRP" {
			return start, start + 1, true
		}
		if !isChunkTag(tokens, start) {
			continue
		}

		end := start
		lastHead := -1
		for end < len(tokens) && isChunkTag(tokens, end) {
			if isHeadAt(tokens, end) {
				lastHead = end
			}
			end++
		}
		if lastHead >= 0 {
			return start, lastHead + 1, true
		}
		start = end - 1
	}
	return 0, 0, false
}

// isChunkTag 判断下标i处的token能否出现在名词短语内
func isChunkTag(tokens []prose.Token, i int) bool {
	tag := tokens[i].Tag
	switch {
	case isNounTag(tag):
		return true
	case tag == "DT" || tag == "PDT" || tag == "PRP$" || tag == "CD" || tag == "POS":
		return true
	case strings.HasPrefix(tag, "JJ"):
		return true
	case tag == "VBG" && isGerundHead(tokens, i):
		return true
	case tag == "VBN" || tag == "VBG":
		// 分词作定语：the uploaded document
		return i+1 < len(tokens) && (isNounTag(tokens[i+1].Tag) || strings.HasPrefix(tokens[i+1].Tag, "JJ")) &&
			i > 0 && (tokens[i-1].Tag == "DT" || tokens[i-1].Tag == "PRP$" || strings.HasPrefix(tokens[i-1].Tag, "JJ"))
	}
	return false
}

// isHeadAt 判断下标i处的token能否作为名词短语的中心词
func isHeadAt(tokens []prose.Token, i int) bool {
	tag := tokens[i].Tag
	return isNounTag(tag) || (tag == "VBG" && isGerundHead(tokens, i))
}

// isGerundHead 普通名词或形容词之后、位于句末或动词之前的动名词作中心词
// 标注器常把 cloud computing、machine learning 标成 JJ/NN + VBG
func isGerundHead(tokens []prose.Token, i int) bool {
	if i == 0 {
		return false
	}
	prev := tokens[i-1].Tag
	if prev != "NN" && prev != "NNS" && !strings.HasPrefix(prev, "JJ") {
		return false
	}
	return i+1 == len(tokens) || isPunct(tokens[i+1]) || isVerbTag(tokens[i+1].Tag)
}

// isPunct 不含字母和数字的token
func isPunct(tok prose.Token) bool {
	return strings.IndexFunc(tok.Text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) < 0
}

func isNounTag(tag string) bool {
	return tag == "NN" || tag == "NNS" || tag == "NNP" || tag == "NNPS"
}

func isVerbTag(tag string) bool {
	return strings.HasPrefix(tag, "VB") || tag == "MD"
}

// chunkRole 推断名词短语的角色
// 介词之后为介词宾语，动词之后为宾语（倒装疑问句中为主语），后接动词为主语
// 动词后紧跟介词或另一名词短语的人称代词是间接宾语，不属于关心的角色
func chunkRole(tokens []prose.Token, start, end int) Role {
	if start > 0 {
		prev := tokens[start-1].Tag
		switch {
		case prev == "IN" || prev == "TO":
			if end < len(tokens) && isVerbTag(tokens[end].Tag) {
				return RoleSubject
			}
			return RolePrepObj
		case prev == "MD" || isCopula(tokens[start-1].Text):
			return RoleSubject
		case isVerbTag(prev):
			if isDative(tokens, start, end) {
				return RoleNone
			}
			return RoleObject
		case prev == "PRP" && start > 1 && isVerbTag(tokens[start-2].Tag):
			// tell me the answer
			return RoleObject
		}
	}

	next := end
	for next < len(tokens) && tokens[next].Tag == "RB" {
		next++
	}
	if next < len(tokens) && isVerbTag(tokens[next].Tag) {
		return RoleSubject
	}

	return RoleNone
}

// isDative 判断 [start,end) 是否为处于间接宾语位置的人称代词：tell me about X
func isDative(tokens []prose.Token, start, end int) bool {
	if end-start != 1 || tokens[start].Tag != "PRP" || end >= len(tokens) {
		return false
	}
	next := tokens[end].Tag
	return next == "IN" || next == "TO" || next == "PRP" || isChunkTag(tokens, end)
}

func isCopula(word string) bool {
	switch strings.ToLower(word) {
	case "is", "are", "was", "were", "am", "be", "'s", "'re":
		return true
	}
	return false
}

// joinTokens 拼接token文本，缩写和所有格后缀不加空格
func joinTokens(tokens []prose.Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !strings.HasPrefix(tok.Text, "'") {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
