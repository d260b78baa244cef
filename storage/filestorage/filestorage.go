package filestorage

// 将抓取到的文章写入本地文件，一次运行产出一个CSV和一个JSON
// CSV带utf-8 BOM，方便Excel直接打开中日文内容

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dszqbsm/newscrawler/spider"
)

// utf-8 BOM
var bom = []byte{0xEF, 0xBB, 0xBF}

// CSV表头
var csvHeader = []string{"序号", "标题", "发布时间", "正文", "图片数量", "图片链接", "原文链接", "栏目", "来源"}

// 文件存储实例，实现spider.Storage接口
type FileStorage struct {
	options
	file     *os.File
	writer   *csv.Writer
	jsonPath string
	articles []*spider.Article // 为JSON输出按写入顺序留存
	seq      int
}

// 创建输出目录并打开本次运行的CSV文件，先写入BOM和表头
func New(opts ...Option) (*FileStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	s := &FileStorage{}
	s.options = options

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, err
	}
	stamp := time.Now().Format("20060102_150405")
	csvPath := filepath.Join(s.outputDir, fmt.Sprintf("news_%s.csv", stamp))
	s.jsonPath = filepath.Join(s.outputDir, fmt.Sprintf("news_%s.json", stamp))

	file, err := os.Create(csvPath)
	if err != nil {
		return nil, err
	}
	if _, err := file.Write(bom); err != nil {
		file.Close()
		return nil, err
	}
	s.file = file
	s.writer = csv.NewWriter(file)
	if err := s.writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, err
	}
	s.logger.Info("file storage ready", zap.String("csv", csvPath), zap.String("json", s.jsonPath))
	return s, nil
}

// 按接收顺序写入CSV并编号，同时留存一份用于JSON输出
func (s *FileStorage) Save(articles ...*spider.Article) error {
	for _, a := range articles {
		s.seq++
		record := []string{
			strconv.Itoa(s.seq),
			a.Title,
			a.PublishTime,
			strings.Join(a.Paragraphs, "\n"),
			strconv.Itoa(len(a.ImageURLs)),
			strings.Join(a.ImageURLs, ","),
			a.SourceURL,
			a.From.Label(),
			a.Site,
		}
		if err := s.writer.Write(record); err != nil {
			return err
		}
		s.articles = append(s.articles, a)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// 刷出CSV并把全部文章另存一份JSON
func (s *FileStorage) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	return s.writeJSON()
}

// 文章的JSON形态
type jsonArticle struct {
	Seq         int      `json:"seq"`
	Title       string   `json:"title"`
	PublishTime string   `json:"publish_time"`
	Paragraphs  []string `json:"paragraphs"`
	ImageCount  int      `json:"image_count"`
	ImageURLs   []string `json:"image_urls"`
	SourceURL   string   `json:"source_url"`
	Source      string   `json:"source"`
	Site        string   `json:"site"`
}

func (s *FileStorage) writeJSON() error {
	docs := make([]jsonArticle, 0, len(s.articles))
	for i, a := range s.articles {
		docs = append(docs, jsonArticle{
			Seq:         i + 1,
			Title:       a.Title,
			PublishTime: a.PublishTime,
			Paragraphs:  a.Paragraphs,
			ImageCount:  len(a.ImageURLs),
			ImageURLs:   a.ImageURLs,
			SourceURL:   a.SourceURL,
			Source:      a.From.Label(),
			Site:        a.Site,
		})
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.jsonPath, data, 0o644)
}
