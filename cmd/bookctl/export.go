package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出图书集合为JSON数组",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			books, err := repo.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			data, err := book.EncodeCollection(books)
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("写入%s失败: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ 已导出%d本图书到%s\n", len(books), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件，默认写到stdout")
	return cmd
}
