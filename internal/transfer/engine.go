// Package transfer drives a single download attempt:探测远端元数据之后，
// 把内容流写进与目标同目录的 .incomplete 临时文件，边写边累积摘要与进度，
// 校验通过后以 rename 原子发布。断点续传依赖临时文件旁的元数据快照，
// 远端元数据变化时放弃续传、从零重来。
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhaoyii/models-cat/internal/hub"
)

// Progress 接收传输事件。空实现合法；Update 的触发频率受节流限制。
type Progress interface {
	Start(filename string, total int64)
	Update(filename string, current, total int64)
	Finish(filename string, current, total int64)
}

// Job 描述一次下载：远端定位、本地布局与探测到的元数据。
type Job struct {
	Repo     hub.Repo
	Filename string

	FilePath       string
	IncompletePath string
	MetaPath       string

	// Size 与 Sha256 来自探测阶段；Sha256 为空表示远端未提供摘要，
	// 按策略跳过校验。Revision 是远端的版本标记，用于判断续传是否安全。
	Size     int64
	Sha256   string
	Revision string
}

// incompleteMeta 持久化在 .incomplete.meta 中，记录临时文件对应的远端元数据。
type incompleteMeta struct {
	Size     int64  `json:"size"`
	Sha256   string `json:"sha256"`
	Revision string `json:"revision"`
}

func (m incompleteMeta) matches(job Job) bool {
	return m.Size == job.Size && Matches(m.Sha256, job.Sha256) && m.Revision == job.Revision
}

const (
	copyBufferSize   = 32 * 1024
	progressInterval = 100 * time.Millisecond
)

// Engine 在注入的 hub 客户端之上执行下载状态机。同步与异步门面共用同一实例。
type Engine struct {
	client *hub.Client
	logger *logrus.Logger
}

// NewEngine 构造传输引擎。logger 为 nil 时丢弃日志。
func NewEngine(client *hub.Client, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Engine{client: client, logger: logger}
}

// Run 执行一次下载。失败时临时文件原样保留（校验失败除外），最终路径
// 在任何失败下都不会出现半成品；取消通过 ctx 生效。
func (e *Engine) Run(ctx context.Context, job Job, progress Progress) error {
	if err := os.MkdirAll(filepath.Dir(job.FilePath), 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", filepath.Dir(job.FilePath), err)
	}

	offset, err := e.resumeOffset(job)
	if err != nil {
		return err
	}

	verifier := NewVerifier()
	if offset > 0 {
		if err := hashExisting(job.IncompletePath, verifier); err != nil {
			return err
		}
	}

	content, err := e.client.OpenContent(ctx, job.Repo, job.Filename, offset)
	if errors.Is(err, hub.ErrRangeNotSatisfiable) {
		// 远端文件比本地残留还短，续传无意义。
		offset, verifier = 0, NewVerifier()
		content, err = e.client.OpenContent(ctx, job.Repo, job.Filename, 0)
	}
	if err != nil {
		return err
	}
	defer content.Body.Close()

	if offset > 0 && !content.Resumed {
		// 远端忽略了 Range 请求，只能整文件重来。
		offset, verifier = 0, NewVerifier()
	}

	temp, err := openIncomplete(job, offset)
	if err != nil {
		return err
	}

	total := job.Size
	if total == 0 && offset == 0 {
		total = content.ContentLength
	}

	if progress != nil {
		progress.Start(job.Filename, total)
	}

	current, copyErr := e.copyStream(ctx, temp, content.Body, verifier, progress, job.Filename, offset, total)
	if closeErr := temp.Close(); copyErr == nil && closeErr != nil {
		copyErr = fmt.Errorf("close %s: %w", job.IncompletePath, closeErr)
	}
	if copyErr != nil {
		// 临时文件保留在原地，后续调用可以续传。
		return copyErr
	}

	if job.Sha256 != "" {
		if sum := verifier.Sum(); !Matches(sum, job.Sha256) {
			os.Remove(job.IncompletePath)
			os.Remove(job.MetaPath)
			return fmt.Errorf("%w: %s expected %s got %s", ErrChecksumMismatch, job.Filename, job.Sha256, sum)
		}
	}

	if err := os.Rename(job.IncompletePath, job.FilePath); err != nil {
		return fmt.Errorf("publish %s: %w", job.FilePath, err)
	}
	os.Remove(job.MetaPath)

	if progress != nil {
		progress.Update(job.Filename, current, total)
		progress.Finish(job.Filename, current, total)
	}

	e.logger.WithFields(logrus.Fields{
		"action": "download",
		"repo":   job.Repo.ID,
		"file":   job.Filename,
		"bytes":  current,
		"resume": offset > 0,
	}).Info("file published")
	return nil
}

// copyStream 把响应正文写进临时文件并同步喂给校验器，按节流间隔上报进度。
func (e *Engine) copyStream(ctx context.Context, dst io.Writer, src io.Reader, verifier *Verifier, progress Progress, filename string, offset, total int64) (int64, error) {
	current := offset
	lastReport := time.Now()
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, wErr := dst.Write(buf[:n]); wErr != nil {
				return current, fmt.Errorf("write incomplete file: %w", wErr)
			}
			verifier.Write(buf[:n])
			current += int64(n)

			if progress != nil && time.Since(lastReport) >= progressInterval {
				progress.Update(filename, current, total)
				lastReport = time.Now()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return current, nil
			}
			return current, fmt.Errorf("stream from hub: %w", err)
		}
	}
}

// resumeOffset 决定本次尝试的起始偏移。临时文件存在且元数据快照与本次
// 探测一致时续传，否则丢弃残留、从零开始。
func (e *Engine) resumeOffset(job Job) (int64, error) {
	info, err := os.Stat(job.IncompletePath)
	if errors.Is(err, fs.ErrNotExist) {
		return e.startFresh(job)
	}
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", job.IncompletePath, err)
	}

	meta, err := readMeta(job.MetaPath)
	if err != nil || !meta.matches(job) || (job.Size > 0 && info.Size() > job.Size) {
		e.logger.WithFields(logrus.Fields{
			"action": "resume_discard",
			"file":   job.Filename,
		}).Debug("stale incomplete file discarded")
		if err := os.Remove(job.IncompletePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("remove stale incomplete file: %w", err)
		}
		return e.startFresh(job)
	}
	return info.Size(), nil
}

// startFresh 写入新的元数据快照并返回零偏移。
func (e *Engine) startFresh(job Job) (int64, error) {
	data, err := json.Marshal(incompleteMeta{Size: job.Size, Sha256: job.Sha256, Revision: job.Revision})
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(job.MetaPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write transfer meta %s: %w", job.MetaPath, err)
	}
	return 0, nil
}

func readMeta(path string) (incompleteMeta, error) {
	var meta incompleteMeta
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

// hashExisting 把已有的临时文件内容喂给校验器，使续传后的摘要覆盖全文。
func hashExisting(path string, verifier *Verifier) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open incomplete file %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(verifier, f); err != nil {
		return fmt.Errorf("hash incomplete file %s: %w", path, err)
	}
	return nil
}

// openIncomplete 打开临时文件：续传时追加，否则截断重写。
func openIncomplete(job Job, offset int64) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(job.IncompletePath, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open incomplete file %s: %w", job.IncompletePath, err)
	}
	return f, nil
}
