package yahoo

// 雅虎日本新闻站点定义：分类页通过无头浏览器滚动加载，
// 话题页走静态分页并经由/pickup/过渡页跳转到文章终点，支持关键词搜索

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/dszqbsm/newscrawler/spider"
)

const baseURL = "https://news.yahoo.co.jp"

var (
	articleRe   = regexp.MustCompile(`^https?://news\.yahoo\.co\.jp/articles/[0-9a-z]+$`)
	canonicalRe = regexp.MustCompile(`^(https?://news\.yahoo\.co\.jp/articles/[0-9a-z]+)`)
	redirectRe  = regexp.MustCompile(`news\.yahoo\.co\.jp/pickup/`)
)

// 文章链接的就绪选择器，分类页与搜索页通用
var articleWaitSelectors = []string{`a[href*="/articles/"]`}

var categories = []spider.Category{
	{Name: "主要", URL: baseURL, Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "国内", URL: baseURL + "/categories/domestic", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "国際", URL: baseURL + "/categories/world", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "経済", URL: baseURL + "/categories/business", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "エンタメ", URL: baseURL + "/categories/entertainment", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "スポーツ", URL: baseURL + "/categories/sports", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "生活", URL: baseURL + "/categories/life", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "IT", URL: baseURL + "/categories/it", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "科学", URL: baseURL + "/categories/science", Render: true, WaitSelectors: articleWaitSelectors},
	{Name: "地域", URL: baseURL + "/categories/local", Render: true, WaitSelectors: articleWaitSelectors},
}

var topics = []spider.Topic{
	{Name: "国内", URL: baseURL + "/topics/domestic"},
	{Name: "国際", URL: baseURL + "/topics/world"},
	{Name: "ビジネス", URL: baseURL + "/topics/business"},
	{Name: "科学", URL: baseURL + "/topics/science"},
	{Name: "エンタメ", URL: baseURL + "/topics/entertainment"},
	{Name: "スポーツ", URL: baseURL + "/topics/sports"},
	{Name: "IT", URL: baseURL + "/topics/it"},
}

func New() *spider.Site {
	return &spider.Site{
		Name:    "yahoo",
		BaseURL: baseURL,
		Rule: &spider.URLRule{
			Article:   articleRe,
			Canonical: canonicalRe,
			Redirect:  redirectRe,
		},
		Extractor:  &Extractor{},
		Categories: categories,
		Topics:     topics,
		PickupSelectors: []string{
			`li[data-ual-view-type="list"] a[href*="/pickup/"]`,
			`a[data-cl-params*="_cl_vmodule:st_topics"]`,
		},
		NoMoreMarker: "該当する記事が見つかりません",
		SearchURL: func(keyword string) string {
			return baseURL + "/search?p=" + url.QueryEscape(keyword) + "&ei=utf-8"
		},
		SearchWaitSelectors: articleWaitSelectors,
		ArticlePage: func(articleURL string, page int) string {
			if page <= 1 {
				return articleURL
			}
			return fmt.Sprintf("%s?page=%d", articleURL, page)
		},
		MaxArticlePages:   8,
		UnknownTime:       "未知时间",
		PlaceholderTitles: []string{"Yahoo!ニュース"},
	}
}
