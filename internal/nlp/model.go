package nlp

// Intent 查询意图类型
type Intent string

const (
	// IntentQuestion 疑问句，查询中包含疑问词
	IntentQuestion Intent = "question"
	// IntentStatement 陈述句，默认意图
	IntentStatement Intent = "statement"
)

// DocumentStructure 文档分析结果
// 三个字段总是来自同一段源文本，创建后不再修改
type DocumentStructure struct {
	Sentences []string `json:"sentences"` // 句子列表，保持文档顺序
	Keywords  []string `json:"keywords"`  // 关键词集合（小写、去停用词、去重）
	Entities  []string `json:"entities"`  // 命名实体集合（去重）
}

// IsEmpty 文档是否没有任何句子
func (d DocumentStructure) IsEmpty() bool {
	return len(d.Sentences) == 0
}

// QueryStructure 查询分析结果
type QueryStructure struct {
	Intent Intent `json:"intent"` // 查询意图
	Focus  string `json:"focus"`  // 查询焦点名词短语，可能为空
}
