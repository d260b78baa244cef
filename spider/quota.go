package spider

// 全局与各来源的剩余配额，单调递减且永不为负
// 初始值小于等于0表示不设上限
type QuotaState struct {
	globalRemaining int
	globalUnbounded bool
	sources         map[string]*sourceQuota
}

type sourceQuota struct {
	remaining int
	unbounded bool
}

func NewQuotaState(global int) *QuotaState {
	return &QuotaState{
		globalRemaining: global,
		globalUnbounded: global <= 0,
		sources:         make(map[string]*sourceQuota),
	}
}

// 注册一个来源的配额，limit小于等于0表示不设上限
func (q *QuotaState) AddSource(name string, limit int) {
	q.sources[name] = &sourceQuota{remaining: limit, unbounded: limit <= 0}
}

func (q *QuotaState) GlobalExhausted() bool {
	return !q.globalUnbounded && q.globalRemaining <= 0
}

// 未注册的来源视为不限量
func (q *QuotaState) SourceExhausted(name string) bool {
	s, ok := q.sources[name]
	if !ok {
		return false
	}
	return !s.unbounded && s.remaining <= 0
}

// 同时扣减全局与来源配额，调用前必须先通过两个Exhausted检查，
// 保证配额即使瞬时也不会越过预算
func (q *QuotaState) Take(name string) {
	if !q.globalUnbounded {
		q.globalRemaining--
	}
	if s, ok := q.sources[name]; ok && !s.unbounded {
		s.remaining--
	}
}

func (q *QuotaState) GlobalRemaining() int {
	return q.globalRemaining
}
