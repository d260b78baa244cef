package asahi

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dszqbsm/newscrawler/spider"
)

// 付费内容的两种页面标记：金钥匙图标与付费会员提示文案
const (
	paidIconSrc   = "//www.asahicom.jp/images/icon_key_gold.png"
	paidTeaserStr = "有料会員になると続きをお読みいただけます"
)

func isPaidContent(html []byte, pageURL string) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return false
	}
	if doc.Find(`img[src="` + paidIconSrc + `"]`).Length() > 0 {
		return true
	}
	paid := false
	doc.Find("span.hideFromApp").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), paidTeaserStr) {
			paid = true
			return false
		}
		return true
	})
	return paid
}

// 朝日文章页抽取器
type Extractor struct{}

// 常见的正文容器类名，依次尝试
var contentClasses = []string{
	"article-content", "main-content", "post-content",
	"entry-content", "news-content", "story-body",
	"article-body", "article-main",
}

var imageContainers = []string{"div.w8Bsl", "div.Isto1"}

// 配图过滤：只收jpg，排除图标、广告等装饰图
var invalidImageKeywords = []string{"icon", "logo", "sponsor", "ad-", "banner", "button", "avatar", "author"}

func (e *Extractor) Extract(html []byte, pageURL string) spider.Fields {
	fields := spider.Fields{}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return fields
	}

	if h1 := doc.Find("div.y_Qv3 h1").First(); h1.Length() > 0 {
		fields.Title = strings.TrimSpace(h1.Text())
	} else {
		fields.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	timeElem := doc.Find("time").First()
	fields.PublishTime = strings.TrimSpace(timeElem.Text())
	if fields.PublishTime == "" {
		fields.PublishTime, _ = timeElem.Attr("datetime")
	}

	fields.Paragraphs = extractParagraphs(doc)
	fields.ImageURLs = extractImages(doc, pageURL)
	return fields
}

func extractParagraphs(doc *goquery.Document) []string {
	var container *goquery.Selection
	for _, class := range contentClasses {
		if sel := doc.Find("." + class).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}
	if container == nil {
		if sel := doc.Find("div#content").First(); sel.Length() > 0 {
			container = sel
		} else if sel := doc.Find("main").First(); sel.Length() > 0 {
			container = sel
		}
	}
	// 找不到正文容器时，段落数量足够才认为页面主体就是正文
	if container == nil {
		all := doc.Find("p")
		if all.Length() <= 3 {
			return nil
		}
		container = doc.Selection
	}
	var paragraphs []string
	container.Find("p").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

func extractImages(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var images []string
	for _, selector := range imageContainers {
		doc.Find(selector).First().Find("img").Each(func(i int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src, _ = s.Attr("srcset")
			}
			if src == "" {
				return
			}
			if strings.HasPrefix(src, "//") {
				src = "https:" + src
			} else if ref, err := url.Parse(src); err == nil && !ref.IsAbs() {
				src = base.ResolveReference(ref).String()
			}
			if !isValidImage(src) {
				return
			}
			src = replaceImagePath(src, "hd640")
			if !seen[src] {
				seen[src] = true
				images = append(images, src)
			}
		})
	}
	return images
}

func isValidImage(src string) bool {
	lower := strings.ToLower(src)
	if !strings.Contains(lower, ".jpg") {
		return false
	}
	for _, keyword := range invalidImageKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}

// 把图片URL中文件名前的尺寸路径段替换为目标尺寸，取大图
// 例如 https://example.com/img/axsada/hw120/a.jpg 变为 https://example.com/img/axsada/hd640/a.jpg
func replaceImagePath(src string, target string) string {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return src
	}
	segments := strings.Split(u.Path, "/")
	if len(segments) < 3 {
		return src
	}
	segments[len(segments)-2] = target
	u.Path = strings.Join(segments, "/")
	return u.String()
}
