package spider

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// 按文档顺序提取页面中所有a标签的href，结果去重
func ExtractLinks(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links, nil
}

// 依次用候选选择器提取链接并解析为绝对地址，contains非空时只保留包含该子串的链接
func ExtractBySelectors(html []byte, base string, selectors []string, contains string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	var links []string
	seen := make(map[string]bool)
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			href = strings.TrimSpace(href)
			if href == "" {
				return
			}
			if contains != "" && !strings.Contains(href, contains) {
				return
			}
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			full := baseURL.ResolveReference(ref).String()
			if seen[full] {
				return
			}
			seen[full] = true
			links = append(links, full)
		})
	}
	return links, nil
}
