package spider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 按地址返回预置内容的假采集器
type fakeFetcher struct {
	pages map[string][]byte
	calls []string
}

func (f *fakeFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return body, nil
}

// 把页面内容按行解析成字段的假抽取器，行格式为 title:xxx、time:xxx、p:xxx、img:xxx
type fakeExtractor struct{}

func (fakeExtractor) Extract(html []byte, pageURL string) Fields {
	var fields Fields
	for _, line := range strings.Split(string(html), "\n") {
		switch {
		case strings.HasPrefix(line, "title:"):
			fields.Title = strings.TrimPrefix(line, "title:")
		case strings.HasPrefix(line, "time:"):
			fields.PublishTime = strings.TrimPrefix(line, "time:")
		case strings.HasPrefix(line, "p:"):
			fields.Paragraphs = append(fields.Paragraphs, strings.TrimPrefix(line, "p:"))
		case strings.HasPrefix(line, "img:"):
			fields.ImageURLs = append(fields.ImageURLs, strings.TrimPrefix(line, "img:"))
		}
	}
	return fields
}

func newArticleSite() *Site {
	return &Site{
		Name:      "example",
		BaseURL:   testBase,
		Rule:      newTestRule(),
		Extractor: fakeExtractor{},
		ArticlePage: func(url string, page int) string {
			return fmt.Sprintf("%s?page=%d", url, page)
		},
		MaxArticlePages:   5,
		UnknownTime:       "未知时间",
		PlaceholderTitles: []string{"トップページ"},
	}
}

func link(site *Site, url string) AcceptedLink {
	return AcceptedLink{URL: url, Site: site, From: Provenance{Category: "国内"}}
}

// 分页文章：第2页有正文则继续，第3页正文为空立即停止，不再抓第4页
func TestValidateStage_Pagination(t *testing.T) {
	site := newArticleSite()
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/articles/abc123":        []byte("title:記事\ntime:2026-08-30\np:第一段\nimg:https://img.example.jp/1.jpg"),
		"https://news.example.jp/articles/abc123?page=2": []byte("p:第二段\nimg:https://img.example.jp/1.jpg\nimg:https://img.example.jp/2.jpg"),
		"https://news.example.jp/articles/abc123?page=3": []byte("title:記事"),
		"https://news.example.jp/articles/abc123?page=4": []byte("p:见不到的段落"),
	}}
	stage := NewValidateStage(f, NewReport(), nil, 0, 0)

	articles := stage.Run(context.Background(), []AcceptedLink{link(site, "https://news.example.jp/articles/abc123")})
	assert.Len(t, articles, 1)
	assert.Equal(t, []string{"第一段", "第二段"}, articles[0].Paragraphs)
	// 图片跨页保序去重
	assert.Equal(t, []string{"https://img.example.jp/1.jpg", "https://img.example.jp/2.jpg"}, articles[0].ImageURLs)
	assert.NotContains(t, f.calls, "https://news.example.jp/articles/abc123?page=4")
	assert.Equal(t, "国内", articles[0].From.Label())
}

// 第1页正文为空时不再翻页，即使后续页有内容也按无正文跳过
func TestValidateStage_FirstPageEmpty(t *testing.T) {
	site := newArticleSite()
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/articles/abc123":        []byte("title:記事\ntime:2026-08-30"),
		"https://news.example.jp/articles/abc123?page=2": []byte("p:第二页才出现的正文"),
	}}
	report := NewReport()
	stage := NewValidateStage(f, report, nil, 0, 0)

	articles := stage.Run(context.Background(), []AcceptedLink{link(site, "https://news.example.jp/articles/abc123")})
	assert.Empty(t, articles)
	assert.Equal(t, 1, report.Skipped["no-body"])
	assert.NotContains(t, f.calls, "https://news.example.jp/articles/abc123?page=2")
}

// 测试有效性校验的各类跳过原因
func TestValidateStage_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{name: "no title", body: "time:2026-08-30\np:正文", reason: "no-title"},
		{name: "placeholder title", body: "title:トップページ\ntime:2026-08-30\np:正文", reason: "no-title"},
		{name: "no time", body: "title:記事\np:正文", reason: "no-time"},
		{name: "unknown time sentinel", body: "title:記事\ntime:未知时间\np:正文", reason: "no-time"},
		{name: "no body", body: "title:記事\ntime:2026-08-30", reason: "no-body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := newArticleSite()
			site.ArticlePage = nil
			f := &fakeFetcher{pages: map[string][]byte{
				"https://news.example.jp/articles/abc123": []byte(tt.body),
			}}
			report := NewReport()
			stage := NewValidateStage(f, report, nil, 0, 0)

			articles := stage.Run(context.Background(), []AcceptedLink{link(site, "https://news.example.jp/articles/abc123")})
			assert.Empty(t, articles)
			assert.Equal(t, 1, report.Skipped[tt.reason])
			assert.Equal(t, 0, report.Valid)
		})
	}
}

// 付费内容无论其他字段如何一律跳过
func TestValidateStage_Paid(t *testing.T) {
	site := newArticleSite()
	site.ArticlePage = nil
	site.Paid = func(html []byte, pageURL string) bool {
		return strings.Contains(string(html), "paywall")
	}
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/articles/abc123": []byte("title:記事\ntime:2026-08-30\np:正文\npaywall"),
	}}
	report := NewReport()
	stage := NewValidateStage(f, report, nil, 0, 0)

	articles := stage.Run(context.Background(), []AcceptedLink{link(site, "https://news.example.jp/articles/abc123")})
	assert.Empty(t, articles)
	assert.Equal(t, 1, report.Skipped["paid"])
}

// 单篇抓取失败只跳过该篇，后续链接继续处理
func TestValidateStage_FetchFailure(t *testing.T) {
	site := newArticleSite()
	site.ArticlePage = nil
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/articles/bbb222": []byte("title:記事\ntime:2026-08-30\np:正文"),
	}}
	report := NewReport()
	stage := NewValidateStage(f, report, nil, 0, 0)

	articles := stage.Run(context.Background(), []AcceptedLink{
		link(site, "https://news.example.jp/articles/aaa111"),
		link(site, "https://news.example.jp/articles/bbb222"),
	})
	assert.Len(t, articles, 1)
	assert.Equal(t, "https://news.example.jp/articles/bbb222", articles[0].SourceURL)
	assert.Equal(t, 1, report.Skipped["fetch-failed"])
	assert.Equal(t, 1, report.Valid)
}
