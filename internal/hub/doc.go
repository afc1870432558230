// Package hub implements the remote hub collaborator: metadata queries
// against the ModelScope 风格的 /api/v1 仓库文件接口，以及带 Range 支持的
// 内容流式读取。上层只依赖这里暴露的 Client 能力，不感知具体 API 形状。
//
// 参考接口：
//
//	curl https://www.modelscope.cn/api/v1/models/BAAI/bge-large-zh-v1.5/repo/files?Recursive=true
package hub
