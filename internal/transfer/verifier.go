package transfer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ErrChecksumMismatch 表示下载内容与远端声明的 SHA-256 摘要不一致。
// 临时文件已被丢弃，重试会从零开始。
var ErrChecksumMismatch = errors.New("transfer: checksum mismatch")

// Verifier 以流式方式累积 SHA-256。实现 io.Writer，可直接挂进写入链。
type Verifier struct {
	h hash.Hash
}

// NewVerifier 返回一个空的摘要累积器。
func NewVerifier() *Verifier {
	return &Verifier{h: sha256.New()}
}

// Write 将一个数据块折叠进摘要。
func (v *Verifier) Write(p []byte) (int, error) {
	return v.h.Write(p)
}

// Sum 结算当前摘要并返回小写十六进制字符串。
func (v *Verifier) Sum() string {
	return hex.EncodeToString(v.h.Sum(nil))
}

// Matches 对比两个十六进制摘要，大小写不敏感。
func Matches(sum, expected string) bool {
	return strings.EqualFold(sum, expected)
}

// FileSHA256 对磁盘上已有文件整体求摘要，用于快速路径的再校验。
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v := NewVerifier()
	if _, err := io.Copy(v, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return v.Sum(), nil
}
