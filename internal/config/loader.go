package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// path 为空表示不读文件，直接返回默认配置。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.CacheDir != "" {
		abs, err := filepath.Abs(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("无法解析缓存目录: %w", err)
		}
		cfg.CacheDir = abs
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Endpoint", "https://www.modelscope.cn")
	v.SetDefault("CacheDir", "")
	v.SetDefault("Revision", "master")
	v.SetDefault("LockTimeout", "5m")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

// Validate 检查字段取值，返回首个不合法字段的 FieldError。
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return newFieldError("Endpoint", "不能为空")
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return newFieldError("Endpoint", "必须是带 scheme 的完整 URL")
	}
	if c.Revision == "" {
		return newFieldError("Revision", "不能为空")
	}
	if c.LockTimeout.DurationValue() < 0 {
		return newFieldError("LockTimeout", "不能为负值")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return newFieldError("LogLevel", "无法识别的日志级别: "+c.LogLevel)
	}
	if c.LogMaxSize < 0 || c.LogMaxBackups < 0 {
		return newFieldError("LogMaxSize", "日志滚动参数不能为负值")
	}
	return nil
}

// durationDecodeHook 让 LockTimeout 同时接受 "5m" 字符串与纯数字秒值。
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(Duration(0)) {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			raw := data.(string)
			if raw == "" {
				return Duration(0), nil
			}
			if d, err := time.ParseDuration(raw); err == nil {
				return Duration(d), nil
			}
			seconds, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("无法解析 Duration 字段: %s", raw)
			}
			return Duration(time.Duration(seconds * float64(time.Second))), nil
		case reflect.Int, reflect.Int32, reflect.Int64:
			return Duration(time.Duration(reflect.ValueOf(data).Int()) * time.Second), nil
		case reflect.Float32, reflect.Float64:
			return Duration(time.Duration(reflect.ValueOf(data).Float() * float64(time.Second))), nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", data)
		}
	}
}
