package spider

import "context"

// 链接的发现上下文，只用于给最终记录打标签，绝不参与去重
type Provenance struct {
	Category string
	Topic    string
	Keyword  string
}

// 返回用于展示的栏目标签，按分类、话题、关键词的顺序取第一个非空值
func (p Provenance) Label() string {
	switch {
	case p.Category != "":
		return p.Category
	case p.Topic != "":
		return p.Topic
	case p.Keyword != "":
		return p.Keyword
	}
	return ""
}

// 来源适配器产出的候选链接，未经规范化与校验
type CandidateLink struct {
	URL  string
	From Provenance
}

// 链接来源适配器的统一契约
// Produce向emit逐条提供候选链接，quota按提供数计数（与聚合器是否接受无关，
// 被拒绝的链接不退还配额），quota为0表示不限量
// emit返回false表示调用方要求停止（通常是全局配额耗尽）
// 单次抓取失败只终止本适配器的产出，不影响其他适配器
type SourceAdapter interface {
	Name() string
	Produce(ctx context.Context, quota int, emit func(CandidateLink) bool) error
}
