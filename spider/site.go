package spider

import (
	"context"
)

// 采集器接口，负责发起HTTP请求并返回UTF-8编码的页面内容
// 重试与退避策略统一在实现内部完成，调用方不做二次重试
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// 渲染会话，对应一次无头浏览器页面的生命周期
// 每次适配器调用独占一个会话，任何退出路径都必须Close以免泄漏浏览器进程
type Session interface {
	// 打开页面并依次尝试候选的就绪选择器，全部未命中时降级返回（只记录日志，不报错）
	Navigate(ctx context.Context, url string, waitSelectors []string) error
	// 返回当前页面的完整HTML
	HTML(ctx context.Context) (string, error)
	// 触发加载更多：优先点击加载按钮，找不到按钮则滚动到页面底部
	LoadMore(ctx context.Context) error
	Close() error
}

// 渲染器接口，负责创建无头浏览器会话
type Renderer interface {
	NewSession(ctx context.Context) (Session, error)
}

// 单页抽取结果，缺失字段为空字符串或空切片，不会是nil语义上的缺失
type Fields struct {
	Title       string
	PublishTime string
	Paragraphs  []string
	ImageURLs   []string
}

// 站点内容抽取接口，选择器细节由各站点实现
type Extractor interface {
	Extract(html []byte, pageURL string) Fields
}

// 分类列表页，Render为true时通过无头浏览器滚动加载，否则只做一次静态抓取
type Category struct {
	Name          string
	URL           string
	Render        bool
	WaitSelectors []string
}

// 话题分页入口，翻页通过?page=N完成
type Topic struct {
	Name string
	URL  string
}

// 一个新闻站点的全部静态定义：链接语法、抽取器与各来源入口
type Site struct {
	Name    string
	BaseURL string

	Rule      *URLRule
	Extractor Extractor

	// 付费内容判断，nil表示站点没有付费墙
	Paid func(html []byte, pageURL string) bool

	Categories []Category
	// 分类列表为空时，通过抓取首页导航动态发现分类
	DiscoverCategories func(ctx context.Context, f Fetcher) ([]Category, error)

	Topics          []Topic
	PickupSelectors []string // 话题页提取过渡链接的CSS选择器
	NoMoreMarker    string   // 翻页无更多内容的页面标记

	// 为空表示站点不支持关键词搜索
	SearchURL           func(keyword string) string
	SearchWaitSelectors []string

	// 文章第page页的URL，page从1开始；nil表示文章不分页
	ArticlePage     func(url string, page int) string
	MaxArticlePages int

	UnknownTime       string   // 发布时间未知时的哨兵值
	PlaceholderTitles []string // 首页标题等占位标题，视为无效
}
