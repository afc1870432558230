package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ListLocalFiles 遍历 <root>/<repoFolder> 下所有版本目录，返回去重后的
// hub 相对路径（不含版本目录前缀，分隔符统一为 `/`）。
func ListLocalFiles(root, repoFolder string) ([]string, error) {
	base := filepath.Join(root, repoFolder)

	seen := make(map[string]struct{})
	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || IsAuxiliary(d.Name()) {
			return nil
		}
		rel, relErr := hubRelPath(base, path)
		if relErr != nil || rel == "" {
			return relErr
		}
		if _, ok := seen[rel]; !ok {
			seen[rel] = struct{}{}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// RemoveFile 删除 hub 相对文件在所有版本目录下的本地副本。文件不存在不算错误。
func RemoveFile(root, repoFolder, filename string) error {
	rel, err := cleanRelPath(filename)
	if err != nil {
		return err
	}
	base := filepath.Join(root, repoFolder)

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || IsAuxiliary(d.Name()) {
			return nil
		}
		cur, relErr := hubRelPath(base, path)
		if relErr != nil {
			return relErr
		}
		if cur != rel {
			return nil
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return rmErr
		}
		return nil
	})
}

// RemoveRepo 删除整个仓库缓存目录，包括所有版本与残留的临时文件。
func RemoveRepo(root, repoFolder string) error {
	if repoFolder == "" {
		return ErrInvalidRequest
	}
	return os.RemoveAll(filepath.Join(root, repoFolder))
}

// hubRelPath 将磁盘绝对路径换算为 hub 相对路径，跳过开头的版本目录。
// 版本目录直接位于 base 之下，文件位于版本目录内。
func hubRelPath(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		// base 根下的散落文件不属于任何版本，忽略。
		return "", nil
	}
	return strings.Join(parts[1:], "/"), nil
}
