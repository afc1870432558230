// Package modelscat 是 ModelScope 风格模型/数据集仓库的本地缓存管理器。
// 同一个文件在一个缓存根目录下最多只会被下载一次；跨线程、跨进程的并发
// 访问通过条目级文件锁串行化；内容在发布前经过 SHA-256 流式校验，发布
// 本身是同卷原子 rename，读取方永远不会看到半成品文件。
//
// 典型用法：
//
//	path, err := modelscat.DownloadModel("BAAI/bge-small-zh-v1.5", "model.safetensors")
//
// 或者构造 ModelsCat 定制 endpoint、缓存目录与进度回调：
//
//	cat, err := modelscat.New(
//		modelscat.NewModelRepo("BAAI/bge-small-zh-v1.5"),
//		modelscat.WithCacheDir("/data/hub-cache"),
//	)
//	path, err = cat.DownloadWithProgress("model.safetensors", myProgress)
//
// 磁盘布局为 <cache_dir>/<type>--<namespace>--<name>/<revision>/<filename>，
// 文件名中的 `/` 保留为子目录；锁文件与 .incomplete 临时文件与最终文件
// 同目录。中断的下载在远端元数据未变化时按字节范围续传。
//
// 所有带 Context 后缀的方法与同步方法共享同一实现，只是把锁等待与网络
// I/O 纳入 ctx 的取消与调度。
package modelscat
