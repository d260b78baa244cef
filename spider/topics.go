package spider

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// 话题分页适配器：逐页抓取静态话题列表
// 每页产出少量过渡页链接，过渡页到文章终点的跳转由聚合器的解析流程完成
// 某页提供零个过渡链接、出现无内容标记或配额用尽时停止翻页
type TopicAdapter struct {
	site    *Site
	topic   Topic
	fetcher Fetcher
	logger  *zap.Logger
}

func NewTopicAdapter(site *Site, topic Topic, fetcher Fetcher, logger *zap.Logger) *TopicAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicAdapter{site: site, topic: topic, fetcher: fetcher, logger: logger}
}

func (a *TopicAdapter) Name() string {
	return a.site.Name + "/topic/" + a.topic.Name
}

func (a *TopicAdapter) Produce(ctx context.Context, quota int, emit func(CandidateLink) bool) error {
	prov := Provenance{Topic: a.topic.Name}
	offered := 0
	for page := 1; ; page++ {
		pageURL := a.topic.URL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", a.topic.URL, page)
		}
		body, err := a.fetcher.Get(ctx, pageURL)
		if err != nil {
			// 单页失败终止本话题的产出，不影响其他来源
			a.logger.Warn("fetch topic page failed",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			return err
		}
		if a.site.NoMoreMarker != "" && bytes.Contains(body, []byte(a.site.NoMoreMarker)) {
			a.logger.Debug("no more topic pages", zap.String("topic", a.topic.Name), zap.Int("page", page))
			return nil
		}

		pickups, err := ExtractBySelectors(body, a.site.BaseURL, a.site.PickupSelectors, "")
		if err != nil {
			return err
		}
		if len(pickups) == 0 {
			a.logger.Debug("topic page yields no pickup links",
				zap.String("topic", a.topic.Name),
				zap.Int("page", page),
			)
			return nil
		}

		for _, pickup := range pickups {
			if quota > 0 && offered >= quota {
				return nil
			}
			offered++
			if !emit(CandidateLink{URL: pickup, From: prov}) {
				return nil
			}
		}
	}
}
