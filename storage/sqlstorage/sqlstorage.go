package sqlstorage

// 将抓取到的文章批量落库到MySQL，攒够一批再执行一次插入

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dszqbsm/newscrawler/spider"
	"github.com/dszqbsm/newscrawler/sqldb"
)

const tableName = "news_articles"

// 文章表的列定义，建表和插入共用
var articleColumns = []sqldb.Field{
	{Title: "title", Type: "VARCHAR(512)"},
	{Title: "publish_time", Type: "VARCHAR(128)"},
	{Title: "body", Type: "LONGTEXT"},
	{Title: "image_count", Type: "INT(8)"},
	{Title: "image_urls", Type: "TEXT"},
	{Title: "source_url", Type: "VARCHAR(512)"},
	{Title: "source", Type: "VARCHAR(255)"},
	{Title: "site", Type: "VARCHAR(64)"},
}

// 存储依赖的数据库操作
type database interface {
	CreateTable(t sqldb.TableData) error
	Insert(t sqldb.TableData) error
	Close() error
}

// MySQL存储实例，实现spider.Storage接口
type SQLStorage struct {
	options
	buffer []*spider.Article // 待写入的缓冲区
	db     database
}

// 创建存储实例并建表
func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	s := &SQLStorage{}
	s.options = options

	db, err := sqldb.New(
		sqldb.WithConnURL(s.sqlURL),
		sqldb.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.db = db

	if err := db.CreateTable(sqldb.TableData{
		TableName:   tableName,
		ColumnNames: articleColumns,
		AutoKey:     true,
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// 追加文章到缓冲区，攒够batchCount时触发一次批量插入
func (s *SQLStorage) Save(articles ...*spider.Article) error {
	for _, a := range articles {
		s.buffer = append(s.buffer, a)
		if len(s.buffer) >= s.batchCount {
			if err := s.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// 写出缓冲区剩余的文章并关闭连接
func (s *SQLStorage) Close() error {
	if err := s.flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// 把缓冲区的文章拼成一条多值插入语句执行
func (s *SQLStorage) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(s.buffer)*len(articleColumns))
	for _, a := range s.buffer {
		args = append(args,
			a.Title,
			a.PublishTime,
			strings.Join(a.Paragraphs, "\n"),
			len(a.ImageURLs),
			strings.Join(a.ImageURLs, ","),
			a.SourceURL,
			a.From.Label(),
			a.Site,
		)
	}
	err := s.db.Insert(sqldb.TableData{
		TableName:   tableName,
		ColumnNames: articleColumns,
		Args:        args,
		DataCount:   len(s.buffer),
		AutoKey:     true,
	})
	if err != nil {
		s.logger.Error("insert articles failed", zap.Error(err))
		return err
	}
	s.logger.Debug("insert articles", zap.Int("count", len(s.buffer)))
	s.buffer = s.buffer[:0]
	return nil
}
