package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 爬虫全局配置，所有字段均可省略，缺省时使用默认值
type Config struct {
	LogLevel string         `yaml:"logLevel"`
	LogFile  string         `yaml:"logFile"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Renderer RendererConfig `yaml:"renderer"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Storage  StorageConfig  `yaml:"storage"`
	Sites    []string       `yaml:"sites"`
	Keywords []string       `yaml:"keywords"`
}

type FetcherConfig struct {
	Timeout    int      `yaml:"timeout"`    // 单次请求超时，毫秒
	MaxRetries int      `yaml:"maxRetries"` // 重试次数上限
	Proxy      []string `yaml:"proxy"`      // 代理地址列表，轮询使用
	RateLimit  int      `yaml:"rateLimit"`  // 每分钟允许的请求数，0表示不限
}

type RendererConfig struct {
	WaitTimeout     int `yaml:"waitTimeout"`     // 等待就绪选择器的超时，毫秒
	ScrollWaitMin   int `yaml:"scrollWaitMin"`   // 滚动后等待下限，毫秒
	ScrollWaitMax   int `yaml:"scrollWaitMax"`   // 滚动后等待上限，毫秒
	MaxStableRounds int `yaml:"maxStableRounds"` // 连续无新链接多少轮后判定静止
}

// 配额为0表示不设上限
type CrawlConfig struct {
	MaxArticles    int `yaml:"maxArticles"`    // 全局最大文章数
	MaxPerCategory int `yaml:"maxPerCategory"` // 每个分类页最多提供的链接数
	MaxPerTopic    int `yaml:"maxPerTopic"`    // 每个话题最多提供的链接数
	MaxPerKeyword  int `yaml:"maxPerKeyword"`  // 每个搜索关键词最多提供的链接数
	RedirectHops   int `yaml:"redirectHops"`   // 过渡页跳转次数上限
	WaitTimeMin    int `yaml:"waitTimeMin"`    // 文章抓取间隔下限，毫秒
	WaitTimeMax    int `yaml:"waitTimeMax"`    // 文章抓取间隔上限，毫秒
}

type StorageConfig struct {
	Kind       string `yaml:"kind"`       // file 或 mysql
	OutputDir  string `yaml:"outputDir"`  // file存储的输出目录
	SqlURL     string `yaml:"sqlURL"`     // mysql连接串
	BatchCount int    `yaml:"batchCount"` // mysql批量插入条数
}

var defaultConfig = Config{
	LogLevel: "INFO",
	Fetcher: FetcherConfig{
		Timeout:    10000,
		MaxRetries: 3,
	},
	Renderer: RendererConfig{
		WaitTimeout:     10000,
		ScrollWaitMin:   2000,
		ScrollWaitMax:   3000,
		MaxStableRounds: 3,
	},
	Crawl: CrawlConfig{
		MaxArticles:  100,
		RedirectHops: 3,
		WaitTimeMin:  500,
		WaitTimeMax:  2500,
	},
	Storage: StorageConfig{
		Kind:       "file",
		OutputDir:  "./saves",
		BatchCount: 10,
	},
	Sites: []string{"yahoo", "asahi"},
}

// 读取yaml配置文件并在缺省字段上应用默认值，文件不存在时直接返回默认配置
func Load(path string) (*Config, error) {
	c := defaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultConfig.LogLevel
	}
	if c.Fetcher.Timeout <= 0 {
		c.Fetcher.Timeout = defaultConfig.Fetcher.Timeout
	}
	if c.Fetcher.MaxRetries <= 0 {
		c.Fetcher.MaxRetries = defaultConfig.Fetcher.MaxRetries
	}
	if c.Renderer.WaitTimeout <= 0 {
		c.Renderer.WaitTimeout = defaultConfig.Renderer.WaitTimeout
	}
	if c.Renderer.ScrollWaitMin <= 0 {
		c.Renderer.ScrollWaitMin = defaultConfig.Renderer.ScrollWaitMin
	}
	if c.Renderer.ScrollWaitMax < c.Renderer.ScrollWaitMin {
		c.Renderer.ScrollWaitMax = c.Renderer.ScrollWaitMin
	}
	if c.Renderer.MaxStableRounds <= 0 {
		c.Renderer.MaxStableRounds = defaultConfig.Renderer.MaxStableRounds
	}
	if c.Crawl.RedirectHops <= 0 {
		c.Crawl.RedirectHops = defaultConfig.Crawl.RedirectHops
	}
	if c.Crawl.WaitTimeMin <= 0 {
		c.Crawl.WaitTimeMin = defaultConfig.Crawl.WaitTimeMin
	}
	if c.Crawl.WaitTimeMax < c.Crawl.WaitTimeMin {
		c.Crawl.WaitTimeMax = c.Crawl.WaitTimeMin
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = defaultConfig.Storage.Kind
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = defaultConfig.Storage.OutputDir
	}
	if c.Storage.BatchCount <= 0 {
		c.Storage.BatchCount = defaultConfig.Storage.BatchCount
	}
	if len(c.Sites) == 0 {
		c.Sites = defaultConfig.Sites
	}
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.Timeout) * time.Millisecond
}

func (c *Config) RenderWaitTimeout() time.Duration {
	return time.Duration(c.Renderer.WaitTimeout) * time.Millisecond
}
