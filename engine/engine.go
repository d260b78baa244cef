package engine

import (
	"context"
	"time"

	"github.com/dszqbsm/newscrawler/spider"
	"go.uber.org/zap"
)

// 爬虫实例，管理一次完整的爬取流程：
// 各来源适配器依次运行（刻意不并发，降低触发站点限流的概率），
// 候选链接全部汇入聚合器去重限量，随后按发现顺序抓取校验并交给存储
type Crawler struct {
	options
}

// 创建并初始化一个Crawler爬虫实例
func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	e := &Crawler{}
	e.options = options
	return e
}

// 单个来源的装配结果：适配器、产出配额与过渡页解析函数
type boundSource struct {
	adapter spider.SourceAdapter
	site    *spider.Site
	quota   int
	resolve spider.RedirectResolver
}

// 执行一次完整的爬取，返回统计结果与成品列表
// 个别来源失败不会中断运行；全局配额耗尽是唯一的取消信号，
// 各来源在每个工作单元之前检查剩余配额并尽快收尾
func (e *Crawler) Run(ctx context.Context) (*spider.Report, []*spider.Article, error) {
	start := time.Now()
	report := spider.NewReport()
	visited := spider.NewVisitedSet()
	quota := spider.NewQuotaState(e.MaxArticles)
	agg := spider.NewAggregator(visited, quota, report, e.RedirectHops, e.Logger)

	sources := e.bindSources(ctx, quota)
	for _, src := range sources {
		if quota.GlobalExhausted() {
			e.Logger.Info("global quota exhausted, stop pulling sources")
			break
		}
		e.Logger.Info("source start", zap.String("source", src.adapter.Name()))
		err := src.adapter.Produce(ctx, src.quota, func(c spider.CandidateLink) bool {
			agg.OfferResolved(ctx, src.site, src.adapter.Name(), c, src.resolve)
			return !quota.GlobalExhausted()
		})
		if err != nil {
			// 来源级失败：记日志后继续下一个来源
			e.Logger.Error("source failed",
				zap.String("source", src.adapter.Name()),
				zap.Error(err),
			)
		}
	}

	links := agg.Links()
	e.Logger.Info("discovery done",
		zap.Int("offered", report.Offered),
		zap.Int("accepted", report.Accepted),
		zap.Int("visited", visited.Len()),
	)

	stage := spider.NewValidateStage(e.Fetcher, report, e.Logger, e.DelayMin, e.DelayMax)
	articles := stage.Run(ctx, links)

	if e.Storage != nil && len(articles) > 0 {
		if err := e.Storage.Save(articles...); err != nil {
			e.Logger.Error("save articles failed", zap.Error(err))
		}
	}

	report.Elapsed = time.Since(start)
	e.logSummary(report)
	return report, articles, nil
}

// 按站点装配来源适配器：分类页、话题页、搜索页，顺序固定
// 每个来源在配额状态中注册自己的上限
func (e *Crawler) bindSources(ctx context.Context, quota *spider.QuotaState) []boundSource {
	var sources []boundSource
	for _, site := range e.Sites {
		resolve := spider.PickupResolver(e.Fetcher, site)

		categories := site.Categories
		if len(categories) == 0 && site.DiscoverCategories != nil {
			found, err := site.DiscoverCategories(ctx, e.Fetcher)
			if err != nil {
				e.Logger.Error("discover categories failed",
					zap.String("site", site.Name),
					zap.Error(err),
				)
			}
			categories = found
		}
		for _, cat := range categories {
			adapter := spider.NewCategoryAdapter(site, cat, e.Fetcher, e.Renderer, e.Scroll, e.Logger)
			quota.AddSource(adapter.Name(), e.MaxPerCategory)
			sources = append(sources, boundSource{adapter, site, e.MaxPerCategory, resolve})
		}
		for _, topic := range site.Topics {
			adapter := spider.NewTopicAdapter(site, topic, e.Fetcher, e.Logger)
			quota.AddSource(adapter.Name(), e.MaxPerTopic)
			sources = append(sources, boundSource{adapter, site, e.MaxPerTopic, resolve})
		}
		if site.SearchURL != nil && e.Renderer != nil {
			for _, keyword := range e.Keywords {
				adapter := spider.NewSearchAdapter(site, keyword, e.Renderer, e.Scroll, e.Logger)
				quota.AddSource(adapter.Name(), e.MaxPerKeyword)
				sources = append(sources, boundSource{adapter, site, e.MaxPerKeyword, resolve})
			}
		}
	}
	return sources
}

func (e *Crawler) logSummary(report *spider.Report) {
	rejected := make(map[string]int, len(report.Rejected))
	for reason, n := range report.Rejected {
		rejected[string(reason)] = n
	}
	e.Logger.Info("crawl finished",
		zap.Int("offered", report.Offered),
		zap.Int("accepted", report.Accepted),
		zap.Any("rejected", rejected),
		zap.Int("fetched", report.Fetched),
		zap.Int("valid", report.Valid),
		zap.Any("skipped", report.Skipped),
		zap.Duration("elapsed", report.Elapsed),
	)
}
