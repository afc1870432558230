package cache

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidRequest 表示请求中的仓库或文件名不合法（含路径穿越等）。
var ErrInvalidRequest = errors.New("cache: invalid request")

// 与正式文件名区分的后缀；下载中间产物永远不会与最终文件同名。
const (
	lockSuffix       = ".lock"
	incompleteSuffix = ".incomplete"
	metaSuffix       = ".incomplete.meta"
)

// Layout 描述一个缓存条目在磁盘上的全部路径。由 Resolve 推导，不单独持久化。
type Layout struct {
	// FilePath 为最终发布路径，只有完整且通过校验的文件会出现在这里。
	FilePath string

	// LockPath 为该条目的跨进程锁文件，与最终文件同目录。
	LockPath string

	// IncompletePath 为下载临时文件，与最终文件同卷以保证 rename 原子性。
	IncompletePath string

	// MetaPath 记录断点续传所依赖的远端元数据快照。
	MetaPath string

	// SnapshotDir 为 <root>/<repoFolder>/<revision>，即该版本的发布目录。
	SnapshotDir string
}

// Resolve 根据缓存根目录、仓库目录名、版本与文件名计算条目布局。
// 纯函数，不做任何 I/O；文件名中的 `/` 保留为子目录。
func Resolve(root, repoFolder, revision, filename string) (Layout, error) {
	if root == "" {
		return Layout{}, fmt.Errorf("%w: cache root is empty", ErrInvalidRequest)
	}
	if repoFolder == "" {
		return Layout{}, fmt.Errorf("%w: repo folder is empty", ErrInvalidRequest)
	}
	rev, err := cleanRelPath(revision)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: revision %q", ErrInvalidRequest, revision)
	}
	// 版本目录固定为 base 下一层，本地列举按此深度剥离版本段。
	if strings.Contains(rev, "/") {
		return Layout{}, fmt.Errorf("%w: revision %q must be a single path segment", ErrInvalidRequest, revision)
	}
	rel, err := cleanRelPath(filename)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: filename %q", ErrInvalidRequest, filename)
	}

	snapshotDir := filepath.Join(root, repoFolder, filepath.FromSlash(rev))
	filePath := filepath.Join(snapshotDir, filepath.FromSlash(rel))

	return Layout{
		FilePath:       filePath,
		LockPath:       filePath + lockSuffix,
		IncompletePath: filePath + incompleteSuffix,
		MetaPath:       filePath + metaSuffix,
		SnapshotDir:    snapshotDir,
	}, nil
}

// ValidateFilename 校验 hub 相对文件名。调用方在发起任何网络请求或磁盘
// 访问之前执行，非法文件名不应产生任何可观测的 I/O。
func ValidateFilename(filename string) error {
	if _, err := cleanRelPath(filename); err != nil {
		return fmt.Errorf("%w: filename %q", ErrInvalidRequest, filename)
	}
	return nil
}

// cleanRelPath 校验并规范化 hub 相对路径。拒绝空值、绝对路径与 `..` 穿越段，
// 穿越检查发生在任何 I/O 之前。
func cleanRelPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidRequest
	}
	parts := strings.Split(p, "/")
	cleaned := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidRequest
		}
		cleaned = append(cleaned, part)
	}
	if len(cleaned) == 0 {
		return "", ErrInvalidRequest
	}
	return strings.Join(cleaned, "/"), nil
}

// IsAuxiliary 判断磁盘上的文件是否为锁或下载中间产物，遍历时应跳过。
func IsAuxiliary(name string) bool {
	return strings.HasSuffix(name, lockSuffix) ||
		strings.HasSuffix(name, incompleteSuffix) ||
		strings.HasSuffix(name, metaSuffix)
}
