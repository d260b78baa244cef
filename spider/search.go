package spider

import (
	"context"

	"go.uber.org/zap"
)

// 搜索结果页适配器：渲染关键词搜索页，复用分类页的滚动提取循环
type SearchAdapter struct {
	site     *Site
	keyword  string
	renderer Renderer
	scroll   ScrollConfig
	logger   *zap.Logger
}

func NewSearchAdapter(site *Site, keyword string, renderer Renderer, scroll ScrollConfig, logger *zap.Logger) *SearchAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchAdapter{
		site:     site,
		keyword:  keyword,
		renderer: renderer,
		scroll:   scroll.normalized(),
		logger:   logger,
	}
}

func (a *SearchAdapter) Name() string {
	return a.site.Name + "/search/" + a.keyword
}

func (a *SearchAdapter) Produce(ctx context.Context, quota int, emit func(CandidateLink) bool) error {
	return produceScroll(ctx, a.renderer, a.site.SearchURL(a.keyword), a.site.SearchWaitSelectors,
		Provenance{Keyword: a.keyword}, quota, a.scroll, a.logger, emit)
}
