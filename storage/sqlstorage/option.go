package sqlstorage

// 用于配置sql存储相关的选项，函数式选项模式

import (
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	sqlURL     string
	batchCount int // 批量数
}

// 默认选项
var defaultOptions = options{
	logger:     zap.NewNop(),
	batchCount: 10,
}

type Option func(opts *options)

// 配置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// 配置数据库的链接url
func WithSqlURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

// 配置批量写入的数量
func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		if batchCount > 0 {
			opts.batchCount = batchCount
		}
	}
}
