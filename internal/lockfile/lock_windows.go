//go:build windows

package lockfile

import (
	"os"

	"golang.org/x/sys/windows"
)

// tryLock 通过 LockFileEx 获取独占锁，LOCKFILE_FAIL_IMMEDIATELY 保证非阻塞。
func tryLock(file *os.File) error {
	return windows.LockFileEx(
		windows.Handle(file.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1, 0,
		&windows.Overlapped{},
	)
}

func unlock(file *os.File) error {
	return windows.UnlockFileEx(
		windows.Handle(file.Fd()),
		0,
		1, 0,
		&windows.Overlapped{},
	)
}
