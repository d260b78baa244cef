package yahoo

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dszqbsm/newscrawler/spider"
)

// 广告内容的关键词，命中的标题、段落与图片一律丢弃
var adKeywords = []string{
	"advertisement", "promotion", "sponsored",
	"広告", "スポンサー", "プロモーション",
	"adserver", "doubleclick", "amazon-adsystem",
}

func isAdvertisement(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range adKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// 雅虎文章页抽取器，选择器按新旧页面版式依次尝试
type Extractor struct{}

var (
	titleSelectors   = []string{"h1.sc-uzx6gd-1", "h1.sc-1tt2vmb-0", "h1.newsTitle", "h1", "title"}
	timeSelectors    = []string{"time.sc-uzx6gd-4", "time.sc-1tt2vmb-2", "time.publishDate", "time", "span.date"}
	contentSelectors = []string{"div.article_body", "div.highLightSearchTarget", "article.sc-1tt2vmb-1", "div.articleDetail"}
	imageSelectors   = []string{"div.article_body", "div.photoGallery", "div.articleDetail"}
)

func (e *Extractor) Extract(html []byte, pageURL string) spider.Fields {
	fields := spider.Fields{}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return fields
	}

	for _, selector := range titleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" && !isAdvertisement(title) {
			fields.Title = title
			break
		}
	}

	for _, selector := range timeSelectors {
		t := strings.TrimSpace(doc.Find(selector).First().Text())
		if t != "" && !isAdvertisement(t) {
			fields.PublishTime = t
			break
		}
	}

	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		container.Find("p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			// 过短的段落多为版权声明或按钮文案
			if utf8.RuneCountInString(text) > 20 && !isAdvertisement(text) {
				fields.Paragraphs = append(fields.Paragraphs, text)
			}
		})
		if len(fields.Paragraphs) > 0 {
			break
		}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return fields
	}
	for _, selector := range imageSelectors {
		doc.Find(selector).First().Find("img").Each(func(i int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src, _ = s.Attr("data-src")
			}
			if src == "" || isAdvertisement(src) {
				return
			}
			if ref, err := url.Parse(src); err == nil {
				fields.ImageURLs = append(fields.ImageURLs, base.ResolveReference(ref).String())
			}
		})
	}
	return fields
}
