// Package lockfile 提供以文件路径为粒度的跨进程建议锁（advisory lock），
// 用于序列化同一缓存条目的并发下载。锁依附于操作系统文件描述符，持有进程
// 崩溃时由内核自动释放，不会永久卡死其他等待者。
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrTimeout 表示在超时时间内未能获得锁。调用方可退避后重试。
var ErrTimeout = errors.New("lockfile: acquisition timed out")

const (
	initialBackoff = 10 * time.Millisecond
	maxBackoff     = 100 * time.Millisecond
)

// Lock 代表一次独占持有。Release 在所有退出路径上都应被调用，且可重复调用。
type Lock struct {
	file   *os.File
	path   string
	locked bool
}

// Acquire 打开（必要时创建）path 处的锁文件并获取独占锁。
// 以非阻塞尝试加退避轮询实现等待，同时响应 ctx 取消与 timeout；
// timeout <= 0 表示只受 ctx 约束。同一进程内对同一路径的再次 Acquire
// 会因独占冲突而在超时后快速失败，不会无限挂起。
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	backoff := initialBackoff
	for {
		if err := tryLock(file); err == nil {
			return &Lock{file: file, path: path, locked: true}, nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			file.Close()
			return nil, fmt.Errorf("%w: %s after %v", ErrTimeout, path, timeout)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			file.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// Path 返回锁文件路径。
func (l *Lock) Path() string {
	return l.path
}

// Release 释放锁并关闭锁文件。重复调用是空操作。
// 锁文件本身不删除：删除与其他进程的并发打开存在竞态，内核在描述符
// 关闭时已经释放了锁。
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if !l.locked {
		if l.file != nil {
			l.file.Close()
			l.file = nil
		}
		return nil
	}

	var err error
	if l.file != nil {
		err = unlock(l.file)
		l.file.Close()
		l.file = nil
	}
	l.locked = false
	return err
}
