package collect

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/dszqbsm/newscrawler/extensions"
	"github.com/dszqbsm/newscrawler/spider"
	"go.uber.org/zap"
)

// 基于无头Chrome的渲染器，每次NewSession启动一个独立的浏览器上下文
type ChromeRender struct {
	WaitTimeout time.Duration // 等待就绪选择器的超时
	Logger      *zap.Logger
}

func (r *ChromeRender) NewSession(ctx context.Context) (spider.Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.UserAgent(extensions.GenerateRandomUA()),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	waitTimeout := r.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &chromeSession{
		ctx:           browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		waitTimeout:   waitTimeout,
		logger:        logger,
	}, nil
}

type chromeSession struct {
	ctx           context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	waitTimeout   time.Duration
	logger        *zap.Logger
}

// 打开页面并依次尝试候选的就绪选择器
// 所有候选都未在超时内出现时降级使用当前页面内容，只记日志不报错
func (s *chromeSession) Navigate(ctx context.Context, url string, waitSelectors []string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return err
	}
	for _, selector := range waitSelectors {
		waitCtx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
		cancel()
		if err == nil {
			return nil
		}
		s.logger.Debug("ready selector missed",
			zap.String("url", url),
			zap.String("selector", selector),
		)
	}
	if len(waitSelectors) > 0 {
		s.logger.Warn("no ready selector matched, use degraded page", zap.String("url", url))
	}
	return nil
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// 优先点击「もっと見る」风格的加载按钮，找不到按钮则滚动到页面底部
const loadMoreScript = `(() => {
	const els = [...document.querySelectorAll('a, button')];
	const btn = els.find(e => e.textContent.includes('もっと見る'));
	if (btn) { btn.click(); return true; }
	window.scrollTo(0, document.body.scrollHeight);
	return false;
})()`

func (s *chromeSession) LoadMore(ctx context.Context) error {
	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(loadMoreScript, &clicked)); err != nil {
		return err
	}
	if clicked {
		s.logger.Debug("load more button clicked")
	}
	return nil
}

// 关闭浏览器并释放上下文，保证不泄漏操作系统级的浏览器进程
func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.browserCancel()
	s.allocCancel()
	return err
}
