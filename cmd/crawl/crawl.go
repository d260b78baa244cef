package crawl

// crawl子命令：加载配置，组装采集器、渲染器和存储器，然后跑一轮完整的抓取流程

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/dszqbsm/newscrawler/collect"
	"github.com/dszqbsm/newscrawler/config"
	"github.com/dszqbsm/newscrawler/engine"
	"github.com/dszqbsm/newscrawler/limiter"
	"github.com/dszqbsm/newscrawler/log"
	"github.com/dszqbsm/newscrawler/parse/asahi"
	"github.com/dszqbsm/newscrawler/parse/yahoo"
	"github.com/dszqbsm/newscrawler/proxy"
	"github.com/dszqbsm/newscrawler/spider"
	"github.com/dszqbsm/newscrawler/storage/filestorage"
	"github.com/dszqbsm/newscrawler/storage/sqlstorage"
)

var CrawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "run a crawl round.",
	Long:  "run a crawl round.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		Run()
	},
}

var configPath string

func init() {
	CrawlCmd.Flags().StringVar(
		&configPath, "config", "config.yml", "set config file path")
}

// 站点注册表，配置里的sites字段按名字在这里查
var siteBuilders = map[string]func() *spider.Site{
	"yahoo": yahoo.New,
	"asahi": asahi.New,
}

func Run() {
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// log
	logLevel, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	plugins := []zapcore.Core{log.NewStdoutPlugin(logLevel)}
	if cfg.LogFile != "" {
		filePlugin, closer := log.NewFilePlugin(cfg.LogFile, logLevel)
		defer closer.Close()
		plugins = append(plugins, filePlugin)
	}
	logger := log.NewLogger(zapcore.NewTee(plugins...))
	logger.Info("log init end")

	zap.ReplaceGlobals(logger)

	// 采集器
	var p proxy.ProxyFunc
	if len(cfg.Fetcher.Proxy) > 0 {
		if p, err = proxy.RoundRobinProxySwitcher(cfg.Fetcher.Proxy...); err != nil {
			logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
		}
	}
	var limit limiter.RateLimiter
	if cfg.Fetcher.RateLimit > 0 {
		// 分钟级和秒级双重限速，突发不超过2个请求
		limit = limiter.Multi(
			rate.NewLimiter(limiter.Per(cfg.Fetcher.RateLimit, 1*time.Minute), 2),
			rate.NewLimiter(limiter.Per(1, 1*time.Second), 1),
		)
	}
	f := &collect.BrowserFetch{
		Timeout: cfg.FetchTimeout(),
		Proxy:   p,
		Limit:   limit,
		Retry: collect.RetryPolicy{
			MaxAttempts: cfg.Fetcher.MaxRetries,
			BaseBackoff: 2 * time.Second,
		},
		Logger: logger.Named("fetch"),
	}

	// 渲染器
	renderer := &collect.ChromeRender{
		WaitTimeout: cfg.RenderWaitTimeout(),
		Logger:      logger.Named("render"),
	}

	// 存储器
	var storage spider.Storage
	switch cfg.Storage.Kind {
	case "mysql":
		storage, err = sqlstorage.New(
			sqlstorage.WithSqlURL(cfg.Storage.SqlURL),
			sqlstorage.WithLogger(logger.Named("sqlDB")),
			sqlstorage.WithBatchCount(cfg.Storage.BatchCount),
		)
	default:
		storage, err = filestorage.New(
			filestorage.WithOutputDir(cfg.Storage.OutputDir),
			filestorage.WithLogger(logger.Named("fileDB")),
		)
	}
	if err != nil {
		logger.Error("create storage failed", zap.Error(err))
		return
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("close storage failed", zap.Error(err))
		}
	}()

	// 站点
	var sites []*spider.Site
	for _, name := range cfg.Sites {
		build, ok := siteBuilders[name]
		if !ok {
			logger.Warn("unknown site", zap.String("name", name))
			continue
		}
		sites = append(sites, build())
	}
	if len(sites) == 0 {
		logger.Error("no site to crawl")
		return
	}

	e := engine.NewEngine(
		engine.WithLogger(logger.Named("engine")),
		engine.WithFetcher(f),
		engine.WithRenderer(renderer),
		engine.WithStorage(storage),
		engine.WithSites(sites...),
		engine.WithKeywords(cfg.Keywords),
		engine.WithMaxArticles(cfg.Crawl.MaxArticles),
		engine.WithSourceQuotas(cfg.Crawl.MaxPerCategory, cfg.Crawl.MaxPerTopic, cfg.Crawl.MaxPerKeyword),
		engine.WithRedirectHops(cfg.Crawl.RedirectHops),
		engine.WithScroll(spider.ScrollConfig{
			WaitMin:         time.Duration(cfg.Renderer.ScrollWaitMin) * time.Millisecond,
			WaitMax:         time.Duration(cfg.Renderer.ScrollWaitMax) * time.Millisecond,
			MaxStableRounds: cfg.Renderer.MaxStableRounds,
		}),
		engine.WithDelay(
			time.Duration(cfg.Crawl.WaitTimeMin)*time.Millisecond,
			time.Duration(cfg.Crawl.WaitTimeMax)*time.Millisecond,
		),
	)

	// Ctrl+C时让流程收尾而不是直接退出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, _, err := e.Run(ctx); err != nil {
		logger.Error("crawl round failed", zap.Error(err))
	}
}
