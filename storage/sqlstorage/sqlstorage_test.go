package sqlstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dszqbsm/newscrawler/spider"
	"github.com/dszqbsm/newscrawler/sqldb"
)

// 记录插入调用的假数据库
type mysqldb struct {
	inserts []sqldb.TableData
}

func (m *mysqldb) CreateTable(t sqldb.TableData) error {
	return nil
}

func (m *mysqldb) Insert(t sqldb.TableData) error {
	m.inserts = append(m.inserts, t)
	return nil
}

func (m *mysqldb) Close() error {
	return nil
}

func testArticle(title string) *spider.Article {
	return &spider.Article{
		Title:       title,
		PublishTime: "2026年8月30日",
		Paragraphs:  []string{"第一段", "第二段"},
		ImageURLs:   []string{"https://img.example.jp/1.jpg", "https://img.example.jp/2.jpg"},
		SourceURL:   "https://news.example.jp/articles/abc123",
		From:        spider.Provenance{Topic: "IT"},
		Site:        "example",
	}
}

// 测试SQL存储的批量写入：攒够批量数触发插入，Close刷出剩余
func TestSQLStorage_Flush(t *testing.T) {
	db := &mysqldb{}
	s := &SQLStorage{db: db}
	s.options = defaultOptions
	s.batchCount = 2

	assert.NoError(t, s.Save(testArticle("一"), testArticle("二"), testArticle("三")))
	// 前两篇已触发一次批量插入
	assert.Len(t, db.inserts, 1)
	assert.Equal(t, 2, db.inserts[0].DataCount)
	assert.Len(t, s.buffer, 1)

	assert.NoError(t, s.Close())
	assert.Len(t, db.inserts, 2)
	assert.Equal(t, 1, db.inserts[1].DataCount)
	assert.Empty(t, s.buffer)

	// 列数与参数数量一致
	first := db.inserts[0]
	assert.Len(t, first.Args, first.DataCount*len(first.ColumnNames))
	assert.Equal(t, "一", first.Args[0])
	assert.Equal(t, "第一段\n第二段", first.Args[2])
	assert.Equal(t, 2, first.Args[3])
	assert.Equal(t, "IT", first.Args[6])
}

// 空缓冲区的flush不产生插入
func TestSQLStorage_FlushEmpty(t *testing.T) {
	db := &mysqldb{}
	s := &SQLStorage{db: db}
	s.options = defaultOptions

	assert.NoError(t, s.Close())
	assert.Empty(t, db.inserts)
}
