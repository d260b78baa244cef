package spider

import (
	"net/url"
	"regexp"
	"strings"
)

// 链接分类结果
type Class int

const (
	ClassExcluded Class = iota // 工具页、资源页等站外噪声
	ClassRedirect              // 过渡页，需要先抓取跳转才能得到文章链接
	ClassArticle               // 直接的文章链接
)

// 站点的链接语法规则
type URLRule struct {
	Article   *regexp.Regexp // 文章链接语法
	Canonical *regexp.Regexp // 规范文章路径的捕获正则，第一捕获组为去除子资源后缀的主链接
	Redirect  *regexp.Regexp // 过渡页路径
	Excluded  *regexp.Regexp // 站点额外的排除路径，可为nil
}

// 所有站点通用的排除路径：个人资料、登录注册等工具页与图片视频等资源页
var commonExcludedRe = regexp.MustCompile(
	`/profile/|/about/|/contact/|/privacy/|/terms/|/sitemap/|/faq/|/search/|/subscribe/|/login/|/register/|/logout/|/images/|/videos/|/photos/|/photo/|/gallery/`)

// 将原始href规范化为可比较的文章标识：
// 基于页面地址解析相对路径，去掉查询串与锚点，只保留scheme+host+path，
// 再按站点规则把路径裁剪到规范文章前缀。对同一链接重复执行结果不变。
// 结构上无法解析的链接（锚点、javascript:、非http协议等）返回ok=false
func (r *URLRule) Normalize(href string, base string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	var u *url.URL
	if ref.IsAbs() {
		u = ref
	} else {
		b, err := url.Parse(base)
		if err != nil {
			return "", false
		}
		u = b.ResolveReference(ref)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	normalized := u.String()
	// 把 /articles/<id>/images/000 之类的子资源路径裁剪到主链接
	if r.Canonical != nil {
		if m := r.Canonical.FindStringSubmatch(normalized); len(m) >= 2 {
			normalized = m[1]
		}
	}
	return normalized, true
}

// 对规范化后的链接分类。排除模式优先于文章模式：
// 两者同时匹配时按排除处理，未匹配任何已知语法的链接同样按排除处理
func (r *URLRule) Classify(normalized string) Class {
	lower := strings.ToLower(normalized)
	if commonExcludedRe.MatchString(lower) {
		return ClassExcluded
	}
	if r.Excluded != nil && r.Excluded.MatchString(lower) {
		return ClassExcluded
	}
	if r.Redirect != nil && r.Redirect.MatchString(normalized) {
		return ClassRedirect
	}
	if r.Article != nil && r.Article.MatchString(normalized) {
		return ClassArticle
	}
	return ClassExcluded
}
