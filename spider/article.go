package spider

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// 固定形状的成品记录，创建后不再修改
type Article struct {
	Title       string
	PublishTime string
	Paragraphs  []string
	ImageURLs   []string
	SourceURL   string
	From        Provenance
	Site        string
}

// 抓取校验阶段：对每个接受的链接完成抓取、抽取与有效性校验
// 链接按发现顺序逐个处理，每篇文章抓取后插入随机延时作为主动限流
type ValidateStage struct {
	fetcher  Fetcher
	report   *Report
	logger   *zap.Logger
	delayMin time.Duration
	delayMax time.Duration
}

func NewValidateStage(fetcher Fetcher, report *Report, logger *zap.Logger, delayMin, delayMax time.Duration) *ValidateStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &ValidateStage{
		fetcher:  fetcher,
		report:   report,
		logger:   logger,
		delayMin: delayMin,
		delayMax: delayMax,
	}
}

// 逐条处理接受的链接，单条异常只记日志并跳过，阶段本身永不中断
func (s *ValidateStage) Run(ctx context.Context, links []AcceptedLink) []*Article {
	articles := make([]*Article, 0, len(links))
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		article, reason := s.fetchOne(ctx, link)
		if article != nil {
			articles = append(articles, article)
			s.report.Valid++
			s.logger.Info("article ok",
				zap.String("url", link.URL),
				zap.String("title", article.Title),
			)
		} else {
			s.report.skip(reason)
			s.logger.Debug("article skipped",
				zap.String("url", link.URL),
				zap.String("reason", reason),
			)
		}
		s.sleep()
	}
	return articles
}

// 抓取并校验单篇文章，返回成品或跳过原因
func (s *ValidateStage) fetchOne(ctx context.Context, link AcceptedLink) (*Article, string) {
	site := link.Site
	body, err := s.fetcher.Get(ctx, link.URL)
	if err != nil {
		s.logger.Warn("fetch article failed", zap.String("url", link.URL), zap.Error(err))
		return nil, "fetch-failed"
	}
	s.report.Fetched++

	// 付费内容无论其他字段如何一律拒绝
	if site.Paid != nil && site.Paid(body, link.URL) {
		return nil, "paid"
	}

	fields := site.Extractor.Extract(body, link.URL)
	paragraphs := fields.Paragraphs
	images := newOrderedSet(fields.ImageURLs)

	// 文章内部分页：上一页正文非空才继续取下一页，遇到空正文立即停止
	// 第1页正文为空时同样不翻页，直接进入校验按无正文处理
	if site.ArticlePage != nil && len(paragraphs) > 0 {
		maxPages := site.MaxArticlePages
		if maxPages <= 0 {
			maxPages = 10
		}
		for page := 2; page <= maxPages; page++ {
			pageURL := site.ArticlePage(link.URL, page)
			pageBody, err := s.fetcher.Get(ctx, pageURL)
			if err != nil {
				s.logger.Warn("fetch article page failed", zap.String("url", pageURL), zap.Error(err))
				break
			}
			s.report.Fetched++
			pageFields := site.Extractor.Extract(pageBody, pageURL)
			if len(pageFields.Paragraphs) == 0 {
				break
			}
			paragraphs = append(paragraphs, pageFields.Paragraphs...)
			images.add(pageFields.ImageURLs)
		}
	}

	// 有效性校验：标题非空且非占位、发布时间已知、正文非空
	if fields.Title == "" || isPlaceholder(fields.Title, site.PlaceholderTitles) {
		return nil, "no-title"
	}
	if fields.PublishTime == "" || (site.UnknownTime != "" && fields.PublishTime == site.UnknownTime) {
		return nil, "no-time"
	}
	if len(paragraphs) == 0 {
		return nil, "no-body"
	}

	return &Article{
		Title:       fields.Title,
		PublishTime: fields.PublishTime,
		Paragraphs:  paragraphs,
		ImageURLs:   images.values(),
		SourceURL:   link.URL,
		From:        link.From,
		Site:        site.Name,
	}, ""
}

func (s *ValidateStage) sleep() {
	if s.delayMax <= 0 {
		return
	}
	d := s.delayMin
	if span := s.delayMax - s.delayMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}

func isPlaceholder(title string, placeholders []string) bool {
	for _, p := range placeholders {
		if title == p {
			return true
		}
	}
	return false
}

// 保序去重的图片链接集合
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet(initial []string) *orderedSet {
	s := &orderedSet{seen: make(map[string]bool)}
	s.add(initial)
	return s
}

func (s *orderedSet) add(items []string) {
	for _, item := range items {
		if item == "" || s.seen[item] {
			continue
		}
		s.seen[item] = true
		s.items = append(s.items, item)
	}
}

func (s *orderedSet) values() []string {
	return s.items
}
