package main

import (
	"bytes"
	"strings"
	"testing"
)

// useBufferWriters swaps stdOut/stdErr with in-memory buffers for the duration
// of a test, allowing assertions on CLI output without polluting test logs.
func useBufferWriters(t *testing.T) {
	t.Helper()

	prevOut := stdOut
	prevErr := stdErr

	stdOut = &bytes.Buffer{}
	stdErr = &bytes.Buffer{}

	t.Cleanup(func() {
		stdOut = prevOut
		stdErr = prevErr
	})
}

func TestParseCLIFlagsPriority(t *testing.T) {
	t.Setenv("MODELS_CAT_CONFIG", "/tmp/env.toml")

	opts, err := parseCLIFlags([]string{"list", "acme/widget"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/env.toml" {
		t.Fatalf("应优先使用环境变量，得到 %s", opts.configPath)
	}

	opts, err = parseCLIFlags([]string{"--config", "/tmp/flag.toml", "list", "acme/widget"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/flag.toml" {
		t.Fatalf("flag 应高于环境变量，得到 %s", opts.configPath)
	}
}

func TestParseCLIFlagsCommands(t *testing.T) {
	opts, err := parseCLIFlags([]string{"-dataset", "-revision", "v1.0", "download", "acme/widget", "weights.bin"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !opts.dataset || opts.revision != "v1.0" {
		t.Fatalf("flag 解析错误: %+v", opts)
	}
	if opts.command != "download" || opts.repoID != "acme/widget" || opts.filename != "weights.bin" {
		t.Fatalf("位置参数解析错误: %+v", opts)
	}
}

func TestParseCLIFlagsMissingArgs(t *testing.T) {
	cases := [][]string{
		{"download", "acme/widget"},
		{"pull"},
		{"list"},
		{"remove"},
		{"frobnicate", "acme/widget"},
	}
	for _, args := range cases {
		if _, err := parseCLIFlags(args); err == nil {
			t.Fatalf("参数 %v 应解析失败", args)
		}
	}
}

func TestRunVersionOutput(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{showVersion: true})
	if code != 0 {
		t.Fatalf("version 模式应成功退出，得到 %d", code)
	}
	if !strings.Contains(stdOut.(*bytes.Buffer).String(), "models-cat") {
		t.Fatalf("version 输出应包含 models-cat 标识")
	}
}

func TestRunNoCommandPrintsUsage(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{})
	if code != 2 {
		t.Fatalf("缺少命令应返回退出码 2，得到 %d", code)
	}
	if !strings.Contains(stdErr.(*bytes.Buffer).String(), "用法") {
		t.Fatalf("应输出用法说明")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{command: "list", repoID: "acme/widget", configPath: "/no/such/config.toml"})
	if code != 1 {
		t.Fatalf("无效配置应返回退出码 1，得到 %d", code)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{-1, "未知大小"},
		{512, "512B"},
		{2048, "2.0KiB"},
		{3 << 20, "3.0MiB"},
		{1 << 30, "1.0GiB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.n); got != c.want {
			t.Fatalf("formatBytes(%d) = %s，期望 %s", c.n, got, c.want)
		}
	}
}
