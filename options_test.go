package modelscat

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv(CacheDirEnv, t.TempDir())

	cat, err := New(NewModelRepo("acme/widget"))
	if err != nil {
		t.Fatalf("构造失败: %v", err)
	}
	if cat.Endpoint() != DefaultEndpoint {
		t.Fatalf("默认入口应为 %s，得到 %s", DefaultEndpoint, cat.Endpoint())
	}
	if cat.lockTimeout != DefaultLockTimeout {
		t.Fatalf("默认锁超时应为 %s，得到 %s", DefaultLockTimeout, cat.lockTimeout)
	}
	if !filepath.IsAbs(cat.CacheDir()) {
		t.Fatalf("缓存目录应为绝对路径，得到 %s", cat.CacheDir())
	}
}

func TestNewAppliesOptions(t *testing.T) {
	dir := t.TempDir()
	client := &http.Client{Timeout: time.Second}
	logger := logrus.New()

	cat, err := New(NewModelRepo("acme/widget"),
		WithEndpoint("https://hub.example.com"),
		WithCacheDir(dir),
		WithHTTPClient(client),
		WithLogger(logger),
		WithLockTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("构造失败: %v", err)
	}
	if cat.Endpoint() != "https://hub.example.com" {
		t.Fatalf("入口未生效: %s", cat.Endpoint())
	}
	if cat.CacheDir() != dir {
		t.Fatalf("缓存目录未生效: %s", cat.CacheDir())
	}
	if cat.httpClient != client || cat.logger != logger {
		t.Fatalf("注入的 HTTP 客户端或日志器未生效")
	}
	if cat.lockTimeout != 30*time.Second {
		t.Fatalf("锁超时未生效: %s", cat.lockTimeout)
	}
}

func TestCacheDirOptionBeatsEnv(t *testing.T) {
	t.Setenv(CacheDirEnv, t.TempDir())
	explicit := t.TempDir()

	cat, err := New(NewModelRepo("acme/widget"), WithCacheDir(explicit))
	if err != nil {
		t.Fatalf("构造失败: %v", err)
	}
	if cat.CacheDir() != explicit {
		t.Fatalf("显式目录应优先于环境变量，得到 %s", cat.CacheDir())
	}
}
