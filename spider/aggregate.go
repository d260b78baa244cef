package spider

import (
	"context"

	"go.uber.org/zap"
)

// 候选链接被拒绝的原因，属于控制流结果而不是错误
type Reason string

const (
	ReasonMalformed      Reason = "malformed"               // 结构上无法规范化
	ReasonExcluded       Reason = "excluded"                // 命中排除模式或不属于已知语法
	ReasonRedirect       Reason = "redirect"                // 过渡页，需要解析跳转后重新提交
	ReasonRedirectLoop   Reason = "redirect-loop"           // 跳转次数超过上限
	ReasonResolveFailed  Reason = "resolve-failed"          // 过渡页抓取或解析失败
	ReasonDuplicate      Reason = "duplicate"               // 已在访问账本中
	ReasonQuotaExhausted Reason = "quota-exhausted"         // 全局配额耗尽，所有来源都应停止
	ReasonSourceQuota    Reason = "source-quota-exhausted"  // 来源配额耗尽，仅该来源停止
)

// 一次提交的结果
type Outcome struct {
	Accepted bool
	URL      string // 规范化后的链接
	From     Provenance
	Reason   Reason // Accepted为false时的拒绝原因
}

// 通过全部检查的链接及其上下文，按接受顺序排列
type AcceptedLink struct {
	URL    string
	From   Provenance
	Site   *Site
	Source string
}

// 过渡页解析函数：抓取过渡页并返回其指向的下一跳链接
type RedirectResolver func(ctx context.Context, pickupURL string) (string, error)

// 聚合器是所有来源汇入的串行咽喉：规范化、分类、去重与配额检查
// 在一次Offer调用内原子完成，两个来源不可能同时接受同一链接
// 顺序执行模型下不持锁；并行化适配器时必须在Offer外重新引入互斥
type Aggregator struct {
	visited *VisitedSet
	quota   *QuotaState
	report  *Report
	maxHops int
	logger  *zap.Logger

	accepted []AcceptedLink
}

func NewAggregator(visited *VisitedSet, quota *QuotaState, report *Report, maxHops int, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxHops <= 0 {
		maxHops = 3
	}
	return &Aggregator{
		visited: visited,
		quota:   quota,
		report:  report,
		maxHops: maxHops,
		logger:  logger,
	}
}

// 提交一个候选链接
// 检查顺序：规范化、分类、去重、全局配额、来源配额，全部通过才插入访问账本并扣减配额
// 同一链接以不同来源先后提交时，保留第一次提交的栏目标签
func (a *Aggregator) Offer(site *Site, source string, c CandidateLink) Outcome {
	a.report.Offered++

	normalized, ok := site.Rule.Normalize(c.URL, site.BaseURL)
	if !ok {
		return a.rejected(ReasonMalformed, c.URL)
	}

	switch site.Rule.Classify(normalized) {
	case ClassExcluded:
		return a.rejected(ReasonExcluded, normalized)
	case ClassRedirect:
		// 过渡页本身不进入接受列表，由调用方解析跳转后重新提交
		return Outcome{URL: normalized, From: c.From, Reason: ReasonRedirect}
	}

	if a.visited.Has(normalized) {
		return a.rejected(ReasonDuplicate, normalized)
	}
	if a.quota.GlobalExhausted() {
		return a.rejected(ReasonQuotaExhausted, normalized)
	}
	if a.quota.SourceExhausted(source) {
		return a.rejected(ReasonSourceQuota, normalized)
	}

	a.visited.Store(normalized)
	a.quota.Take(source)
	a.report.Accepted++
	a.accepted = append(a.accepted, AcceptedLink{
		URL:    normalized,
		From:   c.From,
		Site:   site,
		Source: source,
	})
	a.logger.Debug("link accepted",
		zap.String("url", normalized),
		zap.String("source", source),
	)
	return Outcome{Accepted: true, URL: normalized, From: c.From}
}

// 提交候选链接并在命中过渡页时解析跳转，跳转次数受maxHops约束，
// 超限判定为redirect-loop，永远不会陷入无限循环
// 过渡页地址也记入访问账本，避免同一过渡页被重复抓取
// 跳转终点重新走完整的分类检查，不对跳转结果放宽校验
func (a *Aggregator) OfferResolved(ctx context.Context, site *Site, source string, c CandidateLink, resolve RedirectResolver) Outcome {
	out := a.Offer(site, source, c)
	for hops := 0; out.Reason == ReasonRedirect; hops++ {
		if hops >= a.maxHops {
			return a.rejected(ReasonRedirectLoop, out.URL)
		}
		if a.visited.Has(out.URL) {
			return a.rejected(ReasonDuplicate, out.URL)
		}
		a.visited.Store(out.URL)
		if resolve == nil {
			return a.rejected(ReasonResolveFailed, out.URL)
		}
		next, err := resolve(ctx, out.URL)
		if err != nil {
			a.logger.Warn("resolve pickup failed",
				zap.String("url", out.URL),
				zap.Error(err),
			)
			return a.rejected(ReasonResolveFailed, out.URL)
		}
		out = a.Offer(site, source, CandidateLink{URL: next, From: c.From})
	}
	return out
}

// 按接受顺序返回全部链接
func (a *Aggregator) Links() []AcceptedLink {
	return a.accepted
}

func (a *Aggregator) rejected(reason Reason, url string) Outcome {
	a.report.reject(reason)
	a.logger.Debug("link rejected",
		zap.String("url", url),
		zap.String("reason", string(reason)),
	)
	return Outcome{URL: url, Reason: reason}
}
