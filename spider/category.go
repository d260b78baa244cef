package spider

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// 滚动加载的轮询状态
type scrollState int

const (
	stateLoading   scrollState = iota // 最近一轮出现了新链接
	stateQuiescent                    // 最近一轮没有新链接，还在重试
	stateExhausted                    // 连续多轮没有新链接，判定页面已加载完
)

// 滚动加载的显式配置：静止判定的重试上限与每轮等待区间都不是隐藏的魔法值
type ScrollConfig struct {
	WaitMin         time.Duration // 每轮滚动后的等待下限
	WaitMax         time.Duration // 每轮滚动后的等待上限
	MaxStableRounds int           // 连续无新链接多少轮后判定静止
}

func (c ScrollConfig) normalized() ScrollConfig {
	if c.MaxStableRounds <= 0 {
		c.MaxStableRounds = 3
	}
	if c.WaitMax < c.WaitMin {
		c.WaitMax = c.WaitMin
	}
	return c
}

func (c ScrollConfig) wait() {
	if c.WaitMax <= 0 {
		return
	}
	span := c.WaitMax - c.WaitMin
	d := c.WaitMin
	if span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}

// 分类列表页适配器
// Render为true的分类用无头浏览器滚动加载，否则只做一次静态抓取
type CategoryAdapter struct {
	site     *Site
	category Category
	fetcher  Fetcher
	renderer Renderer
	scroll   ScrollConfig
	logger   *zap.Logger
}

func NewCategoryAdapter(site *Site, category Category, fetcher Fetcher, renderer Renderer, scroll ScrollConfig, logger *zap.Logger) *CategoryAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryAdapter{
		site:     site,
		category: category,
		fetcher:  fetcher,
		renderer: renderer,
		scroll:   scroll.normalized(),
		logger:   logger,
	}
}

func (a *CategoryAdapter) Name() string {
	return a.site.Name + "/category/" + a.category.Name
}

func (a *CategoryAdapter) Produce(ctx context.Context, quota int, emit func(CandidateLink) bool) error {
	prov := Provenance{Category: a.category.Name}
	if a.category.Render && a.renderer != nil {
		return produceScroll(ctx, a.renderer, a.category.URL, a.category.WaitSelectors,
			prov, quota, a.scroll, a.logger, emit)
	}
	// 静态分类页：抓取一次，提取全部链接
	body, err := a.fetcher.Get(ctx, a.category.URL)
	if err != nil {
		return err
	}
	links, err := ExtractLinks(body)
	if err != nil {
		return err
	}
	offered := 0
	for _, href := range links {
		if quota > 0 && offered >= quota {
			break
		}
		offered++
		if !emit(CandidateLink{URL: href, From: prov}) {
			break
		}
	}
	return nil
}

// 滚动提取的公共循环，分类页与搜索结果页共用
// 每轮提取当前可见链接，未达配额则触发加载更多并等待，
// 连续MaxStableRounds轮没有新链接时判定静止退出
func produceScroll(ctx context.Context, renderer Renderer, pageURL string, waitSelectors []string,
	prov Provenance, quota int, scroll ScrollConfig, logger *zap.Logger, emit func(CandidateLink) bool) error {

	session, err := renderer.NewSession(ctx)
	if err != nil {
		return err
	}
	// 任何退出路径都要关闭会话；关闭失败只记日志，不影响本次运行
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close render session failed", zap.Error(err))
		}
	}()

	if err := session.Navigate(ctx, pageURL, waitSelectors); err != nil {
		return err
	}

	seen := make(map[string]bool)
	offered := 0
	stable := 0
	state := stateLoading

	for state != stateExhausted {
		html, err := session.HTML(ctx)
		if err != nil {
			return err
		}
		links, err := ExtractLinks([]byte(html))
		if err != nil {
			return err
		}

		fresh := 0
		for _, href := range links {
			if seen[href] {
				continue
			}
			seen[href] = true
			fresh++
			if quota > 0 && offered >= quota {
				logger.Debug("adapter quota met", zap.String("page", pageURL), zap.Int("offered", offered))
				return nil
			}
			offered++
			if !emit(CandidateLink{URL: href, From: prov}) {
				return nil
			}
		}

		if fresh == 0 {
			stable++
			state = stateQuiescent
			if stable >= scroll.MaxStableRounds {
				state = stateExhausted
				logger.Debug("scroll exhausted",
					zap.String("page", pageURL),
					zap.Int("rounds", stable),
					zap.Int("offered", offered),
				)
				continue
			}
		} else {
			stable = 0
			state = stateLoading
		}

		if err := session.LoadMore(ctx); err != nil {
			logger.Warn("load more failed", zap.String("page", pageURL), zap.Error(err))
			return nil
		}
		scroll.wait()
	}
	return nil
}
