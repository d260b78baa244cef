package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dszqbsm/newscrawler/extensions"
	"github.com/dszqbsm/newscrawler/limiter"
	"github.com/dszqbsm/newscrawler/proxy"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 统一的重试策略：最多MaxAttempts次，退避间隔按尝试次数指数增长
// 所有调用方共用该策略，不在各自的调用点再写sleep重试
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseBackoff: 2 * time.Second,
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	return p.BaseBackoff * time.Duration(1<<attempt)
}

// 最简单的采集器，直接发起GET请求，仅做编码转换，无重试无伪装
type BaseFetch struct{}

func (*BaseFetch) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}
	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	return io.ReadAll(utf8Reader)
}

// 模拟人类行为的采集器：令牌桶限流、随机User-Agent、可选代理、
// 统一重试退避、编码检测并转换为UTF-8
type BrowserFetch struct {
	Timeout time.Duration
	Proxy   proxy.ProxyFunc
	Limit   limiter.RateLimiter
	Retry   RetryPolicy
	Logger  *zap.Logger
}

func (b *BrowserFetch) Get(ctx context.Context, url string) ([]byte, error) {
	retry := b.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy
	}

	var lastErr error
	for attempt := 0; attempt < retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retry.backoff(attempt - 1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		body, err := b.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if b.Logger != nil {
			b.Logger.Debug("fetch attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", url, retry.MaxAttempts, lastErr)
}

func (b *BrowserFetch) getOnce(ctx context.Context, url string) ([]byte, error) {
	if b.Limit != nil {
		if err := b.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}

	client := &http.Client{
		Timeout: b.Timeout,
	}
	if b.Proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = b.Proxy
		client.Transport = transport
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}
	req.Header.Set("User-Agent", extensions.GenerateRandomUA())
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	return io.ReadAll(utf8Reader)
}

// 从响应头部字节推断页面编码，失败时按UTF-8处理
func DeterminEncoding(r *bufio.Reader) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && len(bytes) == 0 {
		return unicode.UTF8
	}
	e, _, _ := charset.DetermineEncoding(bytes, "")
	return e
}
