package engine

import (
	"time"

	"github.com/dszqbsm/newscrawler/spider"
	"go.uber.org/zap"
)

type Option func(opts *options)

// 爬虫配置选项
type options struct {
	Logger   *zap.Logger
	Fetcher  spider.Fetcher
	Renderer spider.Renderer
	Storage  spider.Storage
	Sites    []*spider.Site
	Keywords []string

	MaxArticles    int // 全局配额，0表示不限
	MaxPerCategory int // 每个分类来源的配额，0表示不限
	MaxPerTopic    int
	MaxPerKeyword  int
	RedirectHops   int

	Scroll   spider.ScrollConfig
	DelayMin time.Duration // 文章抓取之间的随机延时区间
	DelayMax time.Duration
}

var defaultOptions = options{
	Logger:       zap.NewNop(),
	RedirectHops: 3,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithFetcher(fetcher spider.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithRenderer(renderer spider.Renderer) Option {
	return func(opts *options) {
		opts.Renderer = renderer
	}
}

func WithStorage(storage spider.Storage) Option {
	return func(opts *options) {
		opts.Storage = storage
	}
}

func WithSites(sites ...*spider.Site) Option {
	return func(opts *options) {
		opts.Sites = sites
	}
}

func WithKeywords(keywords []string) Option {
	return func(opts *options) {
		opts.Keywords = keywords
	}
}

func WithMaxArticles(n int) Option {
	return func(opts *options) {
		opts.MaxArticles = n
	}
}

func WithSourceQuotas(perCategory, perTopic, perKeyword int) Option {
	return func(opts *options) {
		opts.MaxPerCategory = perCategory
		opts.MaxPerTopic = perTopic
		opts.MaxPerKeyword = perKeyword
	}
}

func WithRedirectHops(n int) Option {
	return func(opts *options) {
		opts.RedirectHops = n
	}
}

func WithScroll(scroll spider.ScrollConfig) Option {
	return func(opts *options) {
		opts.Scroll = scroll
	}
}

func WithDelay(min, max time.Duration) Option {
	return func(opts *options) {
		opts.DelayMin = min
		opts.DelayMax = max
	}
}
