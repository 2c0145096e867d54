// Package jsonfile 把图书集合保存为磁盘上的一个JSON文件
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store 单文件集合存储
//
// 写入流程：同目录临时文件 → fsync → rename覆盖
// rename在同一文件系统内是原子的，读者要么看到旧文件，要么看到新文件
type Store struct {
	mu   sync.RWMutex
	path string
}

// New 创建存储，父目录不存在时自动创建
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Name() string { return "json" }

// Path 数据文件路径
func (s *Store) Path() string { return s.path }

// Load 读取文件内容，文件不存在时返回nil
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save 原子替换文件内容
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	// rename成功后临时文件已不存在，Remove返回的错误可以忽略
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Close 无需释放资源
func (s *Store) Close() error { return nil }
