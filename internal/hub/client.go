package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotFound 表示远端不存在该仓库、版本或文件。属于不可重试错误。
var ErrNotFound = errors.New("hub: repo or file not found")

// ErrRangeNotSatisfiable 表示请求的字节范围超出远端文件，调用方应从零重新下载。
var ErrRangeNotSatisfiable = errors.New("hub: requested range not satisfiable")

// datasetPageSize 为数据集 tree 接口单页最大条数。
const datasetPageSize = 100

const userAgent = "models-cat/0.2.0"

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// DefaultHTTPClient 返回带调优 Transport 的共享客户端。不设置整体超时：
// 大文件流式下载的时长由调用方通过 context 控制。
func DefaultHTTPClient() *http.Client {
	return &http.Client{Transport: defaultTransport.Clone()}
}

// Client 是 hub API 的最小封装：文件列表与内容字节流。
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 构造 hub 客户端。httpClient 为 nil 时使用 DefaultHTTPClient，
// logger 为 nil 时丢弃日志。
func NewClient(endpoint string, httpClient *http.Client, logger *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{endpoint: endpoint, httpClient: httpClient, logger: logger}
}

// Endpoint 返回当前使用的 hub 入口地址。
func (c *Client) Endpoint() string {
	return c.endpoint
}

// RepoFiles 递归列出仓库在指定版本下的全部文件。数据集接口分页返回，
// 这里顺序翻页合并结果。
func (c *Client) RepoFiles(ctx context.Context, repo Repo) ([]FileInfo, error) {
	if repo.Kind != KindDataset {
		url := fmt.Sprintf("%s%s?Recursive=true&Revision=%s", c.endpoint, repo.FilesPath(), repo.SafeRevision())
		resp, err := c.getJSON(ctx, repo, url)
		if err != nil {
			return nil, err
		}
		return resp.Data.Files, nil
	}

	page := 0
	first, err := c.getJSON(ctx, repo, c.datasetPageURL(repo, page))
	if err != nil {
		return nil, err
	}
	files := first.Data.Files

	totalPages := (first.Data.TotalCount + datasetPageSize - 1) / datasetPageSize
	for page = 1; page < totalPages; page++ {
		resp, err := c.getJSON(ctx, repo, c.datasetPageURL(repo, page))
		if err != nil {
			return nil, err
		}
		files = append(files, resp.Data.Files...)
	}
	return files, nil
}

// BlobFiles 返回仓库中全部可下载文件。
func (c *Client) BlobFiles(ctx context.Context, repo Repo) ([]FileInfo, error) {
	all, err := c.RepoFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	blobs := all[:0]
	for _, f := range all {
		if f.IsBlob() {
			blobs = append(blobs, f)
		}
	}
	return blobs, nil
}

// FileInfo 返回单个文件的元数据（大小、版本标记、可选的 Sha256 摘要）。
// 文件不在列表中时返回 ErrNotFound。
func (c *Client) FileInfo(ctx context.Context, repo Repo, filename string) (FileInfo, error) {
	files, err := c.RepoFiles(ctx, repo)
	if err != nil {
		return FileInfo{}, err
	}
	for _, f := range files {
		if f.Path == filename {
			return f, nil
		}
	}
	return FileInfo{}, fmt.Errorf("%w: %s in %s", ErrNotFound, filename, repo.ID)
}

// Content 是一次内容请求打开的字节流。
type Content struct {
	// Body 为响应正文，调用方负责 Close。
	Body io.ReadCloser
	// ContentLength 为本次响应剩余的字节数，未知时为 -1。
	ContentLength int64
	// Resumed 表示远端确认支持并接受了字节范围请求（206）。
	Resumed bool
}

// OpenContent 打开文件内容流。offset > 0 时请求 bytes=offset- 的剩余范围；
// 远端不支持范围请求时会返回整个文件（Resumed 为 false），由调用方决定重来。
func (c *Client) OpenContent(ctx context.Context, repo Repo, filename string, offset int64) (*Content, error) {
	url := c.endpoint + repo.ResolvePath(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("hub: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub: fetch %s: %w", url, err)
	}

	c.logger.WithFields(logrus.Fields{
		"action":     "hub_content",
		"request_id": requestID,
		"repo":       repo.ID,
		"file":       filename,
		"offset":     offset,
		"status":     resp.StatusCode,
	}).Debug("content request")

	switch resp.StatusCode {
	case http.StatusOK:
		return &Content{Body: resp.Body, ContentLength: resp.ContentLength, Resumed: false}, nil
	case http.StatusPartialContent:
		return &Content{Body: resp.Body, ContentLength: resp.ContentLength, Resumed: true}, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case http.StatusRequestedRangeNotSatisfiable:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: offset %d for %s", ErrRangeNotSatisfiable, offset, url)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("hub: unexpected status %d fetching %s", resp.StatusCode, url)
	}
}

func (c *Client) datasetPageURL(repo Repo, page int) string {
	return fmt.Sprintf("%s%s?Recursive=true&Revision=%s&Root=/&PageNumber=%d&PageSize=%d",
		c.endpoint, repo.FilesPath(), repo.SafeRevision(), page, datasetPageSize)
}

// getJSON 发起元数据请求并解析公共响应信封。
func (c *Client) getJSON(ctx context.Context, repo Repo, url string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("hub: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"action":     "hub_meta",
		"request_id": requestID,
		"repo":       repo.ID,
		"status":     resp.StatusCode,
	}).Debug("metadata request")

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, repo.ID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub: unexpected status %d fetching %s", resp.StatusCode, url)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("hub: decode response from %s: %w", url, err)
	}
	if envelope.Code != 0 && envelope.Code != http.StatusOK {
		if envelope.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, repo.ID, envelope.Message)
		}
		return nil, fmt.Errorf("hub: api error %d: %s", envelope.Code, envelope.Message)
	}
	return &envelope, nil
}
