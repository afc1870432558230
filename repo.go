package modelscat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhaoyii/models-cat/internal/hub"
)

// RepoType 区分模型与数据集仓库，决定 URL 前缀与缓存目录前缀。
type RepoType int

const (
	// RepoTypeModel 模型仓库，通常由权重与配置文件组成。
	RepoTypeModel RepoType = iota
	// RepoTypeDataset 数据集仓库，通常为 parquet 等数据文件。
	RepoTypeDataset
)

// DefaultRevision 为未显式指定版本时使用的分支名。
const DefaultRevision = "master"

// CacheDirEnv 是缓存根目录的环境变量覆盖项。
const CacheDirEnv = "MODELS_CAT_CACHE_DIR"

func (t RepoType) pathPart() string {
	if t == RepoTypeDataset {
		return "datasets"
	}
	return "models"
}

// String 返回类型的目录前缀表示。
func (t RepoType) String() string {
	return t.pathPart()
}

// Repo 定位 hub 上的一个逻辑仓库：类型、"namespace/name" 形式的 ID 与版本。
// 值语义，派生方法不修改原值。
type Repo struct {
	id       string
	repoType RepoType
	revision string
}

// NewRepo 创建指定类型的仓库引用，版本为 DefaultRevision。
func NewRepo(repoID string, repoType RepoType) Repo {
	return Repo{id: repoID, repoType: repoType, revision: DefaultRevision}
}

// NewModelRepo 创建模型仓库引用。
func NewModelRepo(repoID string) Repo {
	return NewRepo(repoID, RepoTypeModel)
}

// NewDatasetRepo 创建数据集仓库引用。
func NewDatasetRepo(repoID string) Repo {
	return NewRepo(repoID, RepoTypeDataset)
}

// WithRevision 返回指向另一版本的仓库引用。
func (r Repo) WithRevision(revision string) Repo {
	r.revision = revision
	return r
}

// ID 返回 "namespace/name" 形式的仓库 ID。
func (r Repo) ID() string {
	return r.id
}

// Type 返回仓库类型。
func (r Repo) Type() RepoType {
	return r.repoType
}

// Revision 返回仓库版本。
func (r Repo) Revision() string {
	return r.revision
}

// FolderName 返回本地缓存目录名，如 models--acme--widget。
func (r Repo) FolderName() string {
	return r.repoType.pathPart() + "--" + strings.ReplaceAll(r.id, "/", "--")
}

// validate 校验仓库 ID 为 namespace/name 且不含穿越段。任何 I/O 之前执行。
func (r Repo) validate() error {
	parts := strings.Split(r.id, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: repo id %q must be namespace/name", ErrInvalidRequest, r.id)
	}
	for _, part := range parts {
		if part == ".." || part == "." {
			return fmt.Errorf("%w: repo id %q", ErrInvalidRequest, r.id)
		}
	}
	if r.revision == "" {
		return fmt.Errorf("%w: empty revision", ErrInvalidRequest)
	}
	return nil
}

// hubRepo 转换为 hub 客户端所需的仓库定位。
func (r Repo) hubRepo() hub.Repo {
	return hub.Repo{Kind: hub.Kind(r.repoType.pathPart()), ID: r.id, Revision: r.revision}
}

// DefaultCacheDir 解析默认缓存根目录：CacheDirEnv 覆盖优先，否则为
// ~/.cache/modelscope/hub。进程内只在构造 ModelsCat 时解析一次。
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "modelscope", "hub"), nil
}
