package modelscat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhaoyii/models-cat/internal/cache"
	"github.com/zhaoyii/models-cat/internal/hub"
	"github.com/zhaoyii/models-cat/internal/lockfile"
	"github.com/zhaoyii/models-cat/internal/logging"
	"github.com/zhaoyii/models-cat/internal/transfer"
)

// ModelsCat 是面向一个仓库的缓存管理门面：解析缓存布局、快速路径检查、
// 跨进程加锁、驱动传输引擎并原子发布。所有方法并发安全；同一缓存条目
// 在多个 goroutine 与多个进程之间最多只有一次实际传输。
//
// 同步方法（Download、Pull 等）内部使用 context.Background()；
// 带 Context 后缀的方法语义完全相同，仅把锁等待与网络 I/O 交由 ctx 调度，
// 便于在一个执行上下文里多路复用大量并发拉取。
type ModelsCat struct {
	repo        Repo
	endpoint    string
	cacheDir    string
	lockTimeout time.Duration

	httpClient *http.Client
	logger     *logrus.Logger
	client     *hub.Client
	engine     *transfer.Engine
}

// New 构造 ModelsCat。缓存根目录解析一次后不再变化：WithCacheDir 优先，
// 其次 CacheDirEnv 环境变量，最后回退 ~/.cache/modelscope/hub。
func New(repo Repo, opts ...Option) (*ModelsCat, error) {
	if err := repo.validate(); err != nil {
		return nil, err
	}

	c := &ModelsCat{
		repo:        repo,
		endpoint:    DefaultEndpoint,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cacheDir == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		c.cacheDir = dir
	}
	abs, err := filepath.Abs(c.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	c.cacheDir = abs

	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetOutput(io.Discard)
	}
	c.client = hub.NewClient(c.endpoint, c.httpClient, c.logger)
	c.engine = transfer.NewEngine(c.client, c.logger)
	return c, nil
}

// Repo 返回绑定的仓库引用。
func (c *ModelsCat) Repo() Repo {
	return c.repo
}

// Endpoint 返回 hub 入口地址。
func (c *ModelsCat) Endpoint() string {
	return c.endpoint
}

// CacheDir 返回解析后的缓存根目录。
func (c *ModelsCat) CacheDir() string {
	return c.cacheDir
}

// DownloadContext 下载单个文件并返回本地路径。progress 可为 nil。
// 已有完整且通过校验的缓存副本时直接返回，不加锁也不发起内容请求。
// 非法文件名在任何网络请求之前被拒绝。
func (c *ModelsCat) DownloadContext(ctx context.Context, filename string, progress Progress) (string, error) {
	if err := cache.ValidateFilename(filename); err != nil {
		return "", err
	}
	info, err := c.client.FileInfo(ctx, c.repo.hubRepo(), filename)
	if err != nil {
		return "", err
	}
	return c.fetchOne(ctx, info, progress)
}

// PullContext 下载仓库的全部文件。各文件独立走锁与快速路径，已是最新的
// 文件直接跳过。
func (c *ModelsCat) PullContext(ctx context.Context, progress Progress) error {
	blobs, err := c.client.BlobFiles(ctx, c.repo.hubRepo())
	if err != nil {
		return err
	}
	for _, info := range blobs {
		if _, err := c.fetchOne(ctx, info, progress); err != nil {
			return fmt.Errorf("pull %s: %w", info.Path, err)
		}
	}
	return nil
}

// ListHubFilesContext 返回远端仓库的全部可下载文件路径。
func (c *ModelsCat) ListHubFilesContext(ctx context.Context) ([]string, error) {
	blobs, err := c.client.BlobFiles(ctx, c.repo.hubRepo())
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(blobs))
	for _, f := range blobs {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// ListLocalFiles 返回本地缓存中该仓库的文件路径（hub 相对路径）。
func (c *ModelsCat) ListLocalFiles() ([]string, error) {
	return cache.ListLocalFiles(c.cacheDir, c.repo.FolderName())
}

// Remove 删除该文件在所有版本下的本地副本。
func (c *ModelsCat) Remove(filename string) error {
	return cache.RemoveFile(c.cacheDir, c.repo.FolderName(), filename)
}

// RemoveAll 删除该仓库的整个本地缓存目录。
func (c *ModelsCat) RemoveAll() error {
	return cache.RemoveRepo(c.cacheDir, c.repo.FolderName())
}

// fetchOne 对单个文件执行完整的取数流程。锁外先查一次快速路径；
// 需要下载时在锁内二次检查，等待期间别的执行者可能已经发布。
func (c *ModelsCat) fetchOne(ctx context.Context, info hub.FileInfo, progress Progress) (string, error) {
	revision := info.Revision
	if revision == "" {
		revision = c.repo.revision
	}
	layout, err := cache.Resolve(c.cacheDir, c.repo.FolderName(), revision, info.Path)
	if err != nil {
		return "", err
	}

	// 已发布文件是不可变的，读取无需任何协调。
	if ok, err := c.publishedValid(layout, info); err != nil {
		return "", err
	} else if ok {
		fields := logging.TransferFields(c.repo.id, revision, info.Path, true)
		fields["action"] = "cache_hit"
		c.logger.WithFields(fields).Debug("serving published file")
		return layout.FilePath, nil
	}

	// 锁文件与最终文件同目录，嵌套文件名需要先建出目录链。
	if err := os.MkdirAll(filepath.Dir(layout.LockPath), 0o755); err != nil {
		return "", fmt.Errorf("create entry dir %s: %w", filepath.Dir(layout.LockPath), err)
	}

	lock, err := lockfile.Acquire(ctx, layout.LockPath, c.lockTimeout)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	if ok, err := c.publishedValid(layout, info); err != nil {
		return "", err
	} else if ok {
		return layout.FilePath, nil
	}

	job := transfer.Job{
		Repo:           c.repo.hubRepo(),
		Filename:       info.Path,
		FilePath:       layout.FilePath,
		IncompletePath: layout.IncompletePath,
		MetaPath:       layout.MetaPath,
		Size:           info.Size,
		Sha256:         info.Sha256,
		Revision:       revision,
	}
	if err := c.engine.Run(ctx, job, progress); err != nil {
		return "", err
	}
	return layout.FilePath, nil
}

// publishedValid 判断最终路径上是否已有可信副本：文件存在，且远端未提供
// 摘要（按策略跳过校验）或摘要一致。
func (c *ModelsCat) publishedValid(layout cache.Layout, info hub.FileInfo) (bool, error) {
	if _, err := os.Stat(layout.FilePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", layout.FilePath, err)
	}
	if info.Sha256 == "" {
		return true, nil
	}
	sum, err := transfer.FileSHA256(layout.FilePath)
	if err != nil {
		return false, err
	}
	return transfer.Matches(sum, info.Sha256), nil
}
