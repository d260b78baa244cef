package asahi

// 朝日新闻站点定义：分类入口从首页全局导航动态发现，页面全部为静态HTML，
// 不需要无头浏览器；正文存在付费墙，付费文章直接拒绝

import (
	"context"
	"regexp"

	"github.com/dszqbsm/newscrawler/spider"
)

const baseURL = "https://www.asahi.com"

var (
	articleRe   = regexp.MustCompile(`^https://www\.asahi\.com/articles/[^/?#]+$`)
	canonicalRe = regexp.MustCompile(`^(https://www\.asahi\.com/articles/[^/?#]+)`)
	excludedRe  = regexp.MustCompile(`/video/`)
)

func New() *spider.Site {
	return &spider.Site{
		Name:    "asahi",
		BaseURL: baseURL,
		Rule: &spider.URLRule{
			Article:   articleRe,
			Canonical: canonicalRe,
			Excluded:  excludedRe,
		},
		Extractor: &Extractor{},
		Paid:      isPaidContent,
		DiscoverCategories: func(ctx context.Context, f spider.Fetcher) ([]spider.Category, error) {
			return discoverCategories(ctx, f)
		},
		UnknownTime:       "未知时间",
		PlaceholderTitles: []string{"朝日新聞デジタル"},
	}
}
