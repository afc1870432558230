package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// TransferFields 提供 repo/file/命中状态字段，供下载日志复用。
func TransferFields(repo, revision, file string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"repo":      repo,
		"revision":  revision,
		"file":      file,
		"cache_hit": cacheHit,
	}
}
