// Package memory 进程内集合存储，用于测试与演示
package memory

import (
	"context"
	"sync"
)

// Store 保存编码后的字节，每次Load返回副本，调用方之间不会共享对象
type Store struct {
	mu   sync.RWMutex
	data []byte
}

// New 创建存储，seed为初始内容（可以为nil）
func New(seed []byte) *Store {
	return &Store{data: clone(seed)}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data), nil
}

func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = clone(data)
	return nil
}

func (s *Store) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
