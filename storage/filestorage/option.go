package filestorage

// 文件存储的函数式选项

import (
	"go.uber.org/zap"
)

type options struct {
	logger    *zap.Logger
	outputDir string
}

// 默认选项
var defaultOptions = options{
	logger:    zap.NewNop(),
	outputDir: "output",
}

type Option func(opts *options)

// 配置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// 配置输出目录
func WithOutputDir(dir string) Option {
	return func(opts *options) {
		if dir != "" {
			opts.outputDir = dir
		}
	}
}
