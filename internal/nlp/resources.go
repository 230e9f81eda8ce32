package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Resources 语言处理资源
// 在进程启动时显式初始化一次，之后只读，可在多个分析器和goroutine间共享
type Resources struct {
	stopwords     map[string]struct{} // 停用词集合
	questionWords map[string]struct{} // 疑问词集合
}

// ResourceOption 资源初始化选项
type ResourceOption func(*resourceConfig)

type resourceConfig struct {
	extraStopwords []string
	skipWarmup     bool
}

// WithExtraStopwords 在内置停用词表之外追加停用词
func WithExtraStopwords(words ...string) ResourceOption {
	return func(c *resourceConfig) {
		c.extraStopwords = append(c.extraStopwords, words...)
	}
}

// WithoutWarmup 跳过初始化时的模型预热
func WithoutWarmup() ResourceOption {
	return func(c *resourceConfig) {
		c.skipWarmup = true
	}
}

// NewResources 加载停用词表和疑问词表，并预热分词/标注模型
func NewResources(opts ...ResourceOption) (*Resources, error) {
	cfg := &resourceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	res := &Resources{
		stopwords:     toSet(englishStopwords),
		questionWords: toSet(questionWords),
	}
	for _, w := range cfg.extraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			res.stopwords[w] = struct{}{}
		}
	}

	if !cfg.skipWarmup {
		// 预热一次，模型数据损坏时在启动阶段就暴露出来
		if _, err := prose.NewDocument("Warm up the tagger."); err != nil {
			return nil, fmt.Errorf("failed to load language model: %w", err)
		}
	}

	return res, nil
}

// IsStopword 判断是否为停用词（不区分大小写）
func (r *Resources) IsStopword(word string) bool {
	_, ok := r.stopwords[strings.ToLower(word)]
	return ok
}

// IsQuestionWord 判断是否为疑问词（不区分大小写）
func (r *Resources) IsQuestionWord(word string) bool {
	_, ok := r.questionWords[strings.ToLower(word)]
	return ok
}

// StopwordCount 停用词数量
func (r *Resources) StopwordCount() int {
	return len(r.stopwords)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// newDocument 调用prose构建文档，出现panic时降级为空结果
func newDocument(text string, opts ...prose.DocOpt) (doc *prose.Document, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			doc, ok = nil, false
		}
	}()

	d, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, false
	}
	return d, true
}
