package spider

import (
	"crypto/md5"
	"encoding/hex"
)

// 单次运行范围内的去重账本，只增不减，同一链接至多插入一次
// 在抓取派发之前插入，因此抓取失败不会在本次运行内被自动重试
// 顺序执行模型下由聚合器独占访问，不需要加锁
type VisitedSet struct {
	visited map[string]bool
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		visited: make(map[string]bool, 100),
	}
}

// 用于生成链接的唯一识别码
func unique(normalized string) string {
	block := md5.Sum([]byte(normalized))
	return hex.EncodeToString(block[:])
}

func (v *VisitedSet) Has(normalized string) bool {
	return v.visited[unique(normalized)]
}

func (v *VisitedSet) Store(normalized string) {
	v.visited[unique(normalized)] = true
}

func (v *VisitedSet) Len() int {
	return len(v.visited)
}
