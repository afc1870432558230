// models-cat CLI：从 hub 拉取模型/数据集文件到本地缓存。
//
//	models-cat download <namespace/name> <filename>
//	models-cat pull <namespace/name>
//	models-cat list <namespace/name>
//	models-cat list-local <namespace/name>
//	models-cat remove <namespace/name> [filename]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	modelscat "github.com/zhaoyii/models-cat"
	"github.com/zhaoyii/models-cat/internal/config"
	"github.com/zhaoyii/models-cat/internal/logging"
	"github.com/zhaoyii/models-cat/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	showVersion bool
	dataset     bool
	revision    string
	command     string
	repoID      string
	filename    string
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		fmt.Fprintln(stdOut, version.Full())
		return 0
	}
	if opts.command == "" {
		fmt.Fprint(stdErr, usage)
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	repo := modelscat.NewRepo(opts.repoID, repoType(opts))
	revision := cfg.Revision
	if opts.revision != "" {
		revision = opts.revision
	}
	repo = repo.WithRevision(revision)

	catOpts := []modelscat.Option{
		modelscat.WithEndpoint(cfg.Endpoint),
		modelscat.WithLogger(logger),
		modelscat.WithLockTimeout(cfg.LockTimeout.DurationValue()),
	}
	if cfg.CacheDir != "" {
		catOpts = append(catOpts, modelscat.WithCacheDir(cfg.CacheDir))
	}

	cat, err := modelscat.New(repo, catOpts...)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields(opts.command, opts.configPath)
	fields["repo"] = opts.repoID
	fields["revision"] = revision
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("命令开始执行")

	if err := dispatch(cat, opts); err != nil {
		fmt.Fprintf(stdErr, "执行失败: %v\n", err)
		return 1
	}
	return 0
}

func dispatch(cat *modelscat.ModelsCat, opts cliOptions) error {
	switch opts.command {
	case "download":
		path, err := cat.DownloadWithProgress(opts.filename, &consoleProgress{out: stdErr})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdOut, path)
		return nil
	case "pull":
		return cat.PullWithProgress(&consoleProgress{out: stdErr})
	case "list":
		files, err := cat.ListHubFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(stdOut, f)
		}
		return nil
	case "list-local":
		files, err := cat.ListLocalFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(stdOut, f)
		}
		return nil
	case "remove":
		if opts.filename == "" {
			return cat.RemoveAll()
		}
		return cat.Remove(opts.filename)
	default:
		return fmt.Errorf("未知命令: %s", opts.command)
	}
}

func repoType(opts cliOptions) modelscat.RepoType {
	if opts.dataset {
		return modelscat.RepoTypeDataset
	}
	return modelscat.RepoTypeModel
}

const usage = `用法: models-cat [flags] <command> <namespace/name> [filename]

commands:
  download <repo> <file>   下载单个文件并输出本地路径
  pull <repo>              下载仓库全部文件
  list <repo>              列出远端文件
  list-local <repo>        列出本地缓存文件
  remove <repo> [file]     删除本地缓存（不带 file 时删除整个仓库）

flags:
  -config path     TOML 配置文件（可被 MODELS_CAT_CONFIG 覆盖）
  -dataset         目标为数据集仓库
  -revision rev    覆盖配置中的版本
  -version         显示版本信息
`

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("models-cat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	fs.StringVar(&opts.configPath, "config", "", "配置文件路径（可被 MODELS_CAT_CONFIG 覆盖）")
	fs.BoolVar(&opts.dataset, "dataset", false, "目标为数据集仓库")
	fs.StringVar(&opts.revision, "revision", "", "覆盖配置中的版本")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	if opts.configPath == "" {
		opts.configPath = os.Getenv("MODELS_CAT_CONFIG")
	}

	rest := fs.Args()
	if len(rest) > 0 {
		opts.command = rest[0]
	}
	if len(rest) > 1 {
		opts.repoID = rest[1]
	}
	if len(rest) > 2 {
		opts.filename = rest[2]
	}

	if opts.command != "" && !opts.showVersion {
		switch opts.command {
		case "download":
			if opts.repoID == "" || opts.filename == "" {
				return cliOptions{}, fmt.Errorf("download 需要 <namespace/name> 与 <filename>")
			}
		case "pull", "list", "list-local":
			if opts.repoID == "" {
				return cliOptions{}, fmt.Errorf("%s 需要 <namespace/name>", opts.command)
			}
		case "remove":
			if opts.repoID == "" {
				return cliOptions{}, fmt.Errorf("remove 需要 <namespace/name>")
			}
		default:
			return cliOptions{}, fmt.Errorf("未知命令: %s", opts.command)
		}
	}

	return opts, nil
}

// consoleProgress 把进度渲染到终端。核心只回调进度事件，渲染完全在 CLI 层。
type consoleProgress struct {
	out io.Writer
}

func (p *consoleProgress) Start(filename string, total int64) {
	fmt.Fprintf(p.out, "%s: 开始下载 (%s)\n", filename, formatBytes(total))
}

func (p *consoleProgress) Update(filename string, current, total int64) {
	if total > 0 {
		fmt.Fprintf(p.out, "\r%s: %3d%% (%s/%s)", filename, current*100/total, formatBytes(current), formatBytes(total))
		return
	}
	fmt.Fprintf(p.out, "\r%s: %s", filename, formatBytes(current))
}

func (p *consoleProgress) Finish(filename string, current, _ int64) {
	fmt.Fprintf(p.out, "\r%s: 完成 (%s)\n", filename, formatBytes(current))
}

func formatBytes(n int64) string {
	switch {
	case n < 0:
		return "未知大小"
	case n >= 1<<30:
		return fmt.Sprintf("%.1fGiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
