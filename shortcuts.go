package modelscat

// 包级快捷函数，覆盖最常见的"下载一个文件/拉取一个仓库"场景。
// 需要自定义 endpoint、缓存目录或并发控制时请直接构造 ModelsCat。

// DownloadModel 下载模型仓库中的单个文件并返回本地路径。
// filename 为带扩展名的 hub 相对路径，如 `model.gguf` 或 `gguf/model.gguf`。
func DownloadModel(repoID, filename string) (string, error) {
	cat, err := New(NewModelRepo(repoID))
	if err != nil {
		return "", err
	}
	return cat.Download(filename)
}

// DownloadModelWithProgress 下载模型文件并上报进度。
func DownloadModelWithProgress(repoID, filename string, progress Progress) (string, error) {
	cat, err := New(NewModelRepo(repoID))
	if err != nil {
		return "", err
	}
	return cat.DownloadWithProgress(filename, progress)
}

// DownloadDataset 下载数据集仓库中的单个文件并返回本地路径。
func DownloadDataset(repoID, filename string) (string, error) {
	cat, err := New(NewDatasetRepo(repoID))
	if err != nil {
		return "", err
	}
	return cat.Download(filename)
}

// DownloadDatasetWithProgress 下载数据集文件并上报进度。
func DownloadDatasetWithProgress(repoID, filename string, progress Progress) (string, error) {
	cat, err := New(NewDatasetRepo(repoID))
	if err != nil {
		return "", err
	}
	return cat.DownloadWithProgress(filename, progress)
}

// PullModel 拉取整个模型仓库。
func PullModel(repoID string) error {
	cat, err := New(NewModelRepo(repoID))
	if err != nil {
		return err
	}
	return cat.Pull()
}

// PullDataset 拉取整个数据集仓库。
func PullDataset(repoID string) error {
	cat, err := New(NewDatasetRepo(repoID))
	if err != nil {
		return err
	}
	return cat.Pull()
}

// RemoveModelRepo 删除模型仓库的本地缓存。
func RemoveModelRepo(repoID string) error {
	cat, err := New(NewModelRepo(repoID))
	if err != nil {
		return err
	}
	return cat.RemoveAll()
}

// RemoveDatasetRepo 删除数据集仓库的本地缓存。
func RemoveDatasetRepo(repoID string) error {
	cat, err := New(NewDatasetRepo(repoID))
	if err != nil {
		return err
	}
	return cat.RemoveAll()
}

// RemoveModelFile 删除模型仓库中单个文件的本地副本。
func RemoveModelFile(repoID, filename string) error {
	cat, err := New(NewModelRepo(repoID))
	if err != nil {
		return err
	}
	return cat.Remove(filename)
}

// RemoveDatasetFile 删除数据集仓库中单个文件的本地副本。
func RemoveDatasetFile(repoID, filename string) error {
	cat, err := New(NewDatasetRepo(repoID))
	if err != nil {
		return err
	}
	return cat.Remove(filename)
}
