package asahi

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dszqbsm/newscrawler/spider"
)

// 导航容器的候选选择器
var navSelectors = []string{"div#GlobalNav", "ul.NavInner"}

// 抓取首页并从全局导航解析分类入口，首页本身作为「主要」分类排在最前
// 朝日的分类页都是静态HTML，不需要渲染
func discoverCategories(ctx context.Context, f spider.Fetcher) ([]spider.Category, error) {
	body, err := f.Get(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	categories := []spider.Category{{Name: "主要", URL: baseURL}}

	var nav *goquery.Selection
	for _, selector := range navSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			nav = sel
			break
		}
	}
	if nav == nil {
		// 导航结构变化时退化为只爬首页
		return categories, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{baseURL: true}
	nav.Find("li.NavItem").Each(func(i int, item *goquery.Selection) {
		if item.HasClass("Line") {
			return
		}
		link := item.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref).String()
		if !strings.HasPrefix(full, "http") || seen[full] {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		seen[full] = true
		categories = append(categories, spider.Category{Name: name, URL: full})
	})
	return categories, nil
}
