package spider

import (
	"context"
	"errors"
)

// 过渡页上定位文章链接的候选选择器
var pickupArticleSelectors = []string{
	`div[data-ual-component="news-feed-body"] a`,
	`a[href*="/articles/"]`,
	`a[href]`,
}

// 构造站点的过渡页解析函数：抓取过渡页并返回其指向的第一条文章链接
// 没有命中文章链接时返回页面上的第一条链接，交由后续分类统一裁决
func PickupResolver(f Fetcher, site *Site) RedirectResolver {
	return func(ctx context.Context, pickupURL string) (string, error) {
		body, err := f.Get(ctx, pickupURL)
		if err != nil {
			return "", err
		}
		for _, selector := range pickupArticleSelectors {
			links, err := ExtractBySelectors(body, site.BaseURL, []string{selector}, "/articles/")
			if err != nil {
				return "", err
			}
			if len(links) > 0 {
				return links[0], nil
			}
		}
		links, err := ExtractBySelectors(body, site.BaseURL, []string{"a[href]"}, "")
		if err != nil {
			return "", err
		}
		if len(links) == 0 {
			return "", errors.New("pickup page has no outgoing link")
		}
		return links[0], nil
	}
}
