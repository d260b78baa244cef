package spider

import "time"

// 单次运行的统计结果
// 个别来源或文章失败时运行依然完整结束并产出统计，
// 零篇有效文章是一种正常结果，与运行崩溃是两回事
type Report struct {
	Offered  int            // 各来源提供的候选链接总数
	Accepted int            // 通过规范化、分类、去重与配额检查的链接数
	Rejected map[Reason]int // 按原因统计的拒绝数
	Fetched  int            // 实际抓取的文章数
	Valid    int            // 通过有效性校验的成品数
	Skipped  map[string]int // 校验阶段按原因统计的跳过数
	Elapsed  time.Duration
}

func NewReport() *Report {
	return &Report{
		Rejected: make(map[Reason]int),
		Skipped:  make(map[string]int),
	}
}

func (r *Report) reject(reason Reason) {
	r.Rejected[reason]++
}

func (r *Report) skip(reason string) {
	r.Skipped[reason]++
}
