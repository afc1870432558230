package modelscat

// Progress 接收下载进度事件。total 未知时为 -1 或 0；Update 的触发频率
// 由传输引擎节流，不保证逐字节回调。实现必须允许被并发复用于多个文件
//（Pull 会按文件依次回调）。
type Progress interface {
	// Start 在一次文件传输开始时调用。
	Start(filename string, total int64)
	// Update 在传输过程中按节流间隔调用。
	Update(filename string, current, total int64)
	// Finish 在文件发布成功后调用。
	Finish(filename string, current, total int64)
}

// NopProgress 是合法的空实现，不关心进度时传入即可。
type NopProgress struct{}

// Start 实现 Progress。
func (NopProgress) Start(string, int64) {}

// Update 实现 Progress。
func (NopProgress) Update(string, int64, int64) {}

// Finish 实现 Progress。
func (NopProgress) Finish(string, int64, int64) {}
