// Package bolt 基于BoltDB的集合存储
//
// BoltDB是嵌入式KV数据库，所有数据保存在一个文件中，不需要额外的数据库进程。
// 布局：bucket "collections"，key为集合名，value为编码后的JSON数组。
// 每次Save在一个读写事务中完成，天然满足整体替换的原子性。
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "collections"

// Store BoltDB集合存储
type Store struct {
	db         *bolt.DB
	collection []byte
}

// New 打开（或创建）数据库文件并确保bucket存在
// 同一文件只能被一个进程打开，Timeout避免在文件锁上无限等待
func New(path, collection string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开BoltDB失败: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("创建bucket失败: %w", err)
	}

	return &Store{db: db, collection: []byte(collection)}, nil
}

func (s *Store) Name() string { return "bolt" }

// Load 读取集合，key不存在时返回nil
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get(s.collection)
		if v != nil {
			// v只在事务内有效，必须复制
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save 整体替换集合
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(s.collection, data)
	})
}

// Close 释放文件锁
func (s *Store) Close() error {
	return s.db.Close()
}
