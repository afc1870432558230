package modelscat

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint 为默认的 hub 入口地址。
const DefaultEndpoint = "https://www.modelscope.cn"

// DefaultLockTimeout 为等待同一条目下载锁的默认上限。
const DefaultLockTimeout = 5 * time.Minute

// Option 在构造 ModelsCat 时注入可选配置。
type Option func(*ModelsCat)

// WithEndpoint 覆盖 hub 入口地址（私有部署或镜像站）。
func WithEndpoint(endpoint string) Option {
	return func(c *ModelsCat) {
		c.endpoint = endpoint
	}
}

// WithCacheDir 显式指定缓存根目录，优先级高于 CacheDirEnv 环境变量。
func WithCacheDir(dir string) Option {
	return func(c *ModelsCat) {
		c.cacheDir = dir
	}
}

// WithHTTPClient 注入自定义 HTTP 客户端（代理、超时、测试桩）。
func WithHTTPClient(client *http.Client) Option {
	return func(c *ModelsCat) {
		c.httpClient = client
	}
}

// WithLogger 注入结构化日志器；不设置时日志被丢弃。
func WithLogger(logger *logrus.Logger) Option {
	return func(c *ModelsCat) {
		c.logger = logger
	}
}

// WithLockTimeout 覆盖下载锁的等待上限。d <= 0 表示只受 context 约束。
func WithLockTimeout(d time.Duration) Option {
	return func(c *ModelsCat) {
		c.lockTimeout = d
	}
}
