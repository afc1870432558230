//go:build !windows

package lockfile

import (
	"os"
	"syscall"
)

// tryLock 以非阻塞方式获取 flock(2) 独占锁，已被占用时立即返回错误。
func tryLock(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func unlock(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}
