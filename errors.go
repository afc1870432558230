package modelscat

import (
	"github.com/zhaoyii/models-cat/internal/cache"
	"github.com/zhaoyii/models-cat/internal/hub"
	"github.com/zhaoyii/models-cat/internal/lockfile"
	"github.com/zhaoyii/models-cat/internal/transfer"
)

// 错误分级约定：InvalidRequest / NotFound / ChecksumMismatch 为致命错误，
// 重试也不会成功（校验失败后临时文件已被丢弃，重试从零开始）；
// LockTimeout 可退避重试；网络与磁盘错误以 %w 包装原因并附带路径上下文，
// 由调用方用 errors.Is / errors.As 判定。用 errors.Is 匹配以下哨兵。
var (
	// ErrInvalidRequest 表示仓库 ID 或文件名不合法（含 `..` 路径穿越）。
	ErrInvalidRequest = cache.ErrInvalidRequest

	// ErrNotFound 表示远端不存在该仓库、版本或文件。
	ErrNotFound = hub.ErrNotFound

	// ErrLockTimeout 表示等待同一缓存条目的下载锁超时。
	ErrLockTimeout = lockfile.ErrTimeout

	// ErrChecksumMismatch 表示下载内容未通过 SHA-256 校验。
	ErrChecksumMismatch = transfer.ErrChecksumMismatch
)
