// bookctl 图书集合运维命令行
//
// 用法：
//
//	bookctl export -o books.json         导出当前存储中的集合
//	bookctl import books.json            校验并整体替换集合
//	bookctl events                       订阅并打印领域事件
//
// 所有子命令读取与API服务相同的配置（config/config.yaml + BOOKSHELF_*环境变量），
// --config可以指定其他配置文件，例如把json文件迁移到bolt：
//
//	bookctl export -o dump.json
//	bookctl --config config/bolt.yaml import dump.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions 所有子命令共享的参数
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "bookctl",
		Short:        "图书集合运维工具",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "配置文件路径（默认按BOOKSHELF_CONFIG与config/目录查找）")

	root.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newEventsCmd(opts),
	)
	return root
}

// load 读取配置并创建日志
// 日志固定写stderr，stdout留给export的输出
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Log
	logCfg.Output = "stderr"
	zlog, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, zlog, nil
}
