package hub

import (
	"fmt"
	"strings"
)

// Kind 是仓库类型在 URL 与缓存目录中使用的前缀。
type Kind string

const (
	// KindModel 表示模型仓库。
	KindModel Kind = "models"
	// KindDataset 表示数据集仓库。
	KindDataset Kind = "datasets"
)

// Repo 定位 hub 上的一个仓库及其版本。
type Repo struct {
	Kind     Kind
	ID       string
	Revision string
}

// FilesPath 返回仓库文件列表接口的路径（不含分页参数）。
func (r Repo) FilesPath() string {
	if r.Kind == KindDataset {
		return fmt.Sprintf("/api/v1/datasets/%s/repo/tree", r.ID)
	}
	return fmt.Sprintf("/api/v1/models/%s/repo/files", r.ID)
}

// ResolvePath 返回文件内容下载路径：/<kind>/<id>/resolve/<revision>/<filename>。
func (r Repo) ResolvePath(filename string) string {
	return fmt.Sprintf("/%s/%s/resolve/%s/%s", r.Kind, r.ID, r.SafeRevision(), filename)
}

// SafeRevision 对版本号中的 `/` 做 URL 转义，分支名可能带斜杠。
func (r Repo) SafeRevision() string {
	return strings.ReplaceAll(r.Revision, "/", "%2F")
}

// FileInfo 描述仓库中的一个文件。字段名对齐 hub API 的响应，Sha256 与
// Revision 可能缺失（服务端未提供时校验与快照目录有各自的回退策略）。
type FileInfo struct {
	Name     string `json:"Name"`
	Path     string `json:"Path"`
	Type     string `json:"Type"`
	Size     int64  `json:"Size"`
	Revision string `json:"Revision"`
	Sha256   string `json:"Sha256"`
	IsLFS    bool   `json:"IsLFS"`
}

// IsBlob 判断该条目是否为可下载文件（目录等类型会被过滤）。
func (f FileInfo) IsBlob() bool {
	return f.Type == "blob"
}

// apiResponse 为 hub API 的顶层响应信封，模型与数据集接口共用。
type apiResponse struct {
	RequestID string `json:"RequestId"`
	Code      int    `json:"Code"`
	Message   string `json:"Message"`
	Success   bool   `json:"Success"`
	Data      struct {
		Files      []FileInfo `json:"Files"`
		TotalCount int        `json:"TotalCount"`
	} `json:"Data"`
}
