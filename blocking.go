package modelscat

import "context"

// 同步门面：与 Context 变体共享同一套编排逻辑与磁盘语义，区别只在于
// 阻塞调用线程还是交给调用方的 context 调度。

// Download 下载单个文件并返回本地路径。
func (c *ModelsCat) Download(filename string) (string, error) {
	return c.DownloadContext(context.Background(), filename, nil)
}

// DownloadWithProgress 下载单个文件并通过 progress 上报进度。
func (c *ModelsCat) DownloadWithProgress(filename string, progress Progress) (string, error) {
	return c.DownloadContext(context.Background(), filename, progress)
}

// Pull 下载仓库的全部文件。
func (c *ModelsCat) Pull() error {
	return c.PullContext(context.Background(), nil)
}

// PullWithProgress 下载仓库的全部文件并上报进度。
func (c *ModelsCat) PullWithProgress(progress Progress) error {
	return c.PullContext(context.Background(), progress)
}

// ListHubFiles 返回远端仓库的全部可下载文件路径。
func (c *ModelsCat) ListHubFiles() ([]string, error) {
	return c.ListHubFilesContext(context.Background())
}
