package filestorage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dszqbsm/newscrawler/spider"
)

func testArticle(title, url, category string) *spider.Article {
	return &spider.Article{
		Title:       title,
		PublishTime: "2026年8月30日 9時15分",
		Paragraphs:  []string{"第一段", "第二段"},
		ImageURLs:   []string{"https://img.example.jp/1.jpg"},
		SourceURL:   url,
		From:        spider.Provenance{Category: category},
		Site:        "example",
	}
}

// 保存后CSV带BOM、表头齐全、序号按写入顺序递增，JSON与CSV内容一致
func TestFileStorage_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := New(WithOutputDir(dir))
	require.NoError(t, err)

	require.NoError(t, s.Save(testArticle("記事一", "https://news.example.jp/articles/aaa111", "国内")))
	require.NoError(t, s.Save(
		testArticle("記事二", "https://news.example.jp/articles/bbb222", "経済"),
		testArticle("記事三", "https://news.example.jp/articles/ccc333", "IT"),
	))
	require.NoError(t, s.Close())

	csvFiles, err := filepath.Glob(filepath.Join(dir, "news_*.csv"))
	require.NoError(t, err)
	require.Len(t, csvFiles, 1)

	data, err := os.ReadFile(csvFiles[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "記事一", records[1][1])
	assert.Equal(t, "3", records[3][0])
	assert.Equal(t, "IT", records[3][7])
	assert.Equal(t, "第一段\n第二段", records[1][3])

	jsonFiles, err := filepath.Glob(filepath.Join(dir, "news_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonFiles, 1)

	jsonData, err := os.ReadFile(jsonFiles[0])
	require.NoError(t, err)
	var docs []jsonArticle
	require.NoError(t, json.Unmarshal(jsonData, &docs))
	require.Len(t, docs, 3)
	assert.Equal(t, 1, docs[0].Seq)
	assert.Equal(t, "記事一", docs[0].Title)
	assert.Equal(t, 1, docs[0].ImageCount)
	assert.Equal(t, "経済", docs[1].Source)
}

// 一篇都没保存时也能正常收尾，产出空的CSV与JSON
func TestFileStorage_Empty(t *testing.T) {
	dir := t.TempDir()
	s, err := New(WithOutputDir(dir))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	csvFiles, _ := filepath.Glob(filepath.Join(dir, "news_*.csv"))
	assert.Len(t, csvFiles, 1)
	jsonFiles, _ := filepath.Glob(filepath.Join(dir, "news_*.json"))
	assert.Len(t, jsonFiles, 1)
}
