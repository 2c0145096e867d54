package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "校验JSON文件并整体替换图书集合",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("读取%s失败: %w", args[0], err)
			}
			books, err := parseCollection(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ 校验通过，共%d本图书\n", len(books))
				return nil
			}

			cfg, zlog, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = zlog.Sync() }()

			backend, err := persistence.OpenBackend(cmd.Context(), cfg, zlog)
			if err != nil {
				return err
			}
			repo := persistence.NewCollectionRepository(backend, nil, zlog)
			defer repo.Close()

			if err := repo.ReplaceAll(cmd.Context(), books); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ 已导入%d本图书到%s\n", len(books), backend.Name())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "只校验文件，不写入存储")
	return cmd
}

// parseCollection 校验导入文件
// 要求：JSON数组，每个元素是对象，asin是非空字符串且互不重复
func parseCollection(data []byte) ([]*book.Book, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("不是合法的JSON数组: %w", err)
	}

	books := make([]*book.Book, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, raw := range items {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("第%d项不是JSON对象", i+1)
		}

		var b book.Book
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, fmt.Errorf("第%d项解析失败: %w", i+1, err)
		}
		if b.ASIN == "" {
			return nil, fmt.Errorf("第%d项缺少asin", i+1)
		}
		if first, ok := seen[b.ASIN]; ok {
			return nil, fmt.Errorf("第%d项的asin %q与第%d项重复", i+1, b.ASIN, first)
		}
		seen[b.ASIN] = i + 1
		books = append(books, &b)
	}
	return books, nil
}
