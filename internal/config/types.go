// Package config 为 models-cat CLI 提供 TOML 配置加载：hub 入口、缓存目录
// 与日志行为。库调用方不依赖这里，直接使用门面的函数式选项。
package config

import (
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return &FieldError{Field: "Duration", Reason: "无法解析时长: " + raw}
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// Config 是 TOML 文件映射的整体结构。零值经 applyDefaults 后即可使用。
type Config struct {
	// Endpoint 为 hub 入口地址。
	Endpoint string `mapstructure:"Endpoint"`

	// CacheDir 为缓存根目录；为空时由库按环境变量与主目录解析。
	CacheDir string `mapstructure:"CacheDir"`

	// Revision 为未在命令行指定时使用的默认版本。
	Revision string `mapstructure:"Revision"`

	// LockTimeout 为等待同一条目下载锁的上限。
	LockTimeout Duration `mapstructure:"LockTimeout"`

	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}
