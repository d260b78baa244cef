package spider

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTopicSite() *Site {
	site := newTestSite()
	site.PickupSelectors = []string{`a[href*="/pickup/"]`}
	site.NoMoreMarker = "該当する記事が見つかりません"
	return site
}

func pickupPage(ids ...int) []byte {
	page := "<html><body><ul>"
	for _, id := range ids {
		page += fmt.Sprintf(`<li><a href="/pickup/%d">見出し</a></li>`, id)
	}
	return []byte(page + "</ul></body></html>")
}

// 逐页翻页直到命中无内容标记
func TestTopicAdapter_Paging(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/topics/it":        pickupPage(1, 2),
		"https://news.example.jp/topics/it?page=2": pickupPage(3),
		"https://news.example.jp/topics/it?page=3": []byte("<html><body>該当する記事が見つかりません</body></html>"),
	}}
	adapter := NewTopicAdapter(newTopicSite(), Topic{Name: "IT", URL: "https://news.example.jp/topics/it"}, f, nil)

	var got []CandidateLink
	err := adapter.Produce(context.Background(), 0, func(c CandidateLink) bool {
		got = append(got, c)
		return true
	})
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "https://news.example.jp/pickup/1", got[0].URL)
	assert.Equal(t, "https://news.example.jp/pickup/3", got[2].URL)
	assert.Equal(t, "IT", got[0].From.Topic)
}

// 某页提供零个过渡链接时停止翻页
func TestTopicAdapter_EmptyPage(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/topics/it":        pickupPage(1),
		"https://news.example.jp/topics/it?page=2": []byte("<html><body><p>広告だけのページ</p></body></html>"),
	}}
	adapter := NewTopicAdapter(newTopicSite(), Topic{Name: "IT", URL: "https://news.example.jp/topics/it"}, f, nil)

	var got []string
	err := adapter.Produce(context.Background(), 0, func(c CandidateLink) bool {
		got = append(got, c.URL)
		return true
	})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotContains(t, f.calls, "https://news.example.jp/topics/it?page=3")
}

// 配额用尽时停止翻页
func TestTopicAdapter_Quota(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]byte{
		"https://news.example.jp/topics/it": pickupPage(1, 2, 3),
	}}
	adapter := NewTopicAdapter(newTopicSite(), Topic{Name: "IT", URL: "https://news.example.jp/topics/it"}, f, nil)

	var got []string
	err := adapter.Produce(context.Background(), 2, func(c CandidateLink) bool {
		got = append(got, c.URL)
		return true
	})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

// 翻页抓取失败终止本话题，错误向上返回
func TestTopicAdapter_FetchFailure(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]byte{}}
	adapter := NewTopicAdapter(newTopicSite(), Topic{Name: "IT", URL: "https://news.example.jp/topics/it"}, f, nil)

	err := adapter.Produce(context.Background(), 0, func(c CandidateLink) bool { return true })
	assert.Error(t, err)
}
