package spider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSite() *Site {
	return &Site{
		Name:    "example",
		BaseURL: testBase,
		Rule:    newTestRule(),
	}
}

func newTestAggregator(global int) (*Aggregator, *QuotaState, *Report) {
	quota := NewQuotaState(global)
	report := NewReport()
	agg := NewAggregator(NewVisitedSet(), quota, report, 3, nil)
	return agg, quota, report
}

// 同一链接从不同来源先后提交，第二次必须拒绝，保留第一次的栏目标签
func TestAggregator_Duplicate(t *testing.T) {
	site := newTestSite()
	agg, _, report := newTestAggregator(0)

	first := agg.Offer(site, "example/category/国内", CandidateLink{
		URL:  "https://news.example.jp/articles/abc123",
		From: Provenance{Category: "国内"},
	})
	assert.True(t, first.Accepted)

	second := agg.Offer(site, "example/topic/IT", CandidateLink{
		URL:  "https://news.example.jp/articles/abc123?utm_source=top",
		From: Provenance{Topic: "IT"},
	})
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonDuplicate, second.Reason)

	links := agg.Links()
	assert.Len(t, links, 1)
	assert.Equal(t, "国内", links[0].From.Label())
	assert.Equal(t, 2, report.Offered)
	assert.Equal(t, 1, report.Accepted)
}

// 测试各类拒绝原因
func TestAggregator_Reject(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		reason Reason
	}{
		{name: "malformed", url: "javascript:void(0)", reason: ReasonMalformed},
		{name: "excluded tool page", url: "https://news.example.jp/login/", reason: ReasonExcluded},
		{name: "excluded unknown", url: "https://news.example.jp/ranking/daily", reason: ReasonExcluded},
	}
	site := newTestSite()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, _, report := newTestAggregator(0)
			out := agg.Offer(site, "src", CandidateLink{URL: tt.url})
			assert.False(t, out.Accepted)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, 1, report.Rejected[tt.reason])
		})
	}
}

// 全局配额为2时，跨来源的第三个链接必须被拒绝
func TestAggregator_GlobalQuota(t *testing.T) {
	site := newTestSite()
	agg, quota, _ := newTestAggregator(2)

	out := agg.Offer(site, "a", CandidateLink{URL: "https://news.example.jp/articles/aaa111"})
	assert.True(t, out.Accepted)
	out = agg.Offer(site, "b", CandidateLink{URL: "https://news.example.jp/articles/bbb222"})
	assert.True(t, out.Accepted)
	assert.True(t, quota.GlobalExhausted())
	assert.Equal(t, 0, quota.GlobalRemaining())

	out = agg.Offer(site, "a", CandidateLink{URL: "https://news.example.jp/articles/ccc333"})
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonQuotaExhausted, out.Reason)
	assert.Len(t, agg.Links(), 2)
}

// 来源配额耗尽只挡住该来源，其他来源不受影响
func TestAggregator_SourceQuota(t *testing.T) {
	site := newTestSite()
	agg, quota, _ := newTestAggregator(0)
	quota.AddSource("a", 1)
	quota.AddSource("b", 1)

	out := agg.Offer(site, "a", CandidateLink{URL: "https://news.example.jp/articles/aaa111"})
	assert.True(t, out.Accepted)
	out = agg.Offer(site, "a", CandidateLink{URL: "https://news.example.jp/articles/bbb222"})
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonSourceQuota, out.Reason)

	out = agg.Offer(site, "b", CandidateLink{URL: "https://news.example.jp/articles/bbb222"})
	assert.True(t, out.Accepted)
}

// 过渡页解析成功后，终点链接走完整的检查流程
func TestAggregator_OfferResolved(t *testing.T) {
	site := newTestSite()
	agg, _, _ := newTestAggregator(0)

	resolve := func(ctx context.Context, pickupURL string) (string, error) {
		return "https://news.example.jp/articles/abc123", nil
	}
	out := agg.OfferResolved(context.Background(), site, "src",
		CandidateLink{URL: "https://news.example.jp/pickup/6531234", From: Provenance{Topic: "IT"}}, resolve)
	assert.True(t, out.Accepted)
	assert.Equal(t, "https://news.example.jp/articles/abc123", out.URL)

	// 同一过渡页第二次提交时，过渡页地址已在访问账本中
	out = agg.OfferResolved(context.Background(), site, "src",
		CandidateLink{URL: "https://news.example.jp/pickup/6531234"}, resolve)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonDuplicate, out.Reason)
}

// 跳转次数超过上限时判定为redirect-loop，不会无限循环
func TestAggregator_RedirectLoop(t *testing.T) {
	site := newTestSite()
	agg, _, report := newTestAggregator(0)

	hop := 0
	resolve := func(ctx context.Context, pickupURL string) (string, error) {
		hop++
		return fmt.Sprintf("https://news.example.jp/pickup/%d", hop), nil
	}
	out := agg.OfferResolved(context.Background(), site, "src",
		CandidateLink{URL: "https://news.example.jp/pickup/0"}, resolve)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonRedirectLoop, out.Reason)
	assert.Equal(t, 1, report.Rejected[ReasonRedirectLoop])
}

// 过渡页解析失败按resolve-failed处理，不影响后续提交
func TestAggregator_ResolveFailed(t *testing.T) {
	site := newTestSite()
	agg, _, _ := newTestAggregator(0)

	resolve := func(ctx context.Context, pickupURL string) (string, error) {
		return "", errors.New("fetch failed")
	}
	out := agg.OfferResolved(context.Background(), site, "src",
		CandidateLink{URL: "https://news.example.jp/pickup/6531234"}, resolve)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonResolveFailed, out.Reason)

	out = agg.Offer(site, "src", CandidateLink{URL: "https://news.example.jp/articles/abc123"})
	assert.True(t, out.Accepted)
}
