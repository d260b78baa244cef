package spider

// 存储引擎的统一规范
// Save必须按传入顺序持久化记录，先发现的文章排在前面
// Close负责把缓冲中的数据全部落盘
type Storage interface {
	Save(articles ...*Article) error
	Close() error
}
