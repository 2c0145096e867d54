package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Store Redis集合存储
// Key设计：{prefix}:{collection}，value为编码后的JSON数组（String类型）
// SET本身是原子的，不需要事务
type Store struct {
	client *redis.Client
	key    string
}

// NewStore 创建集合存储，Close时会关闭client
func NewStore(client *redis.Client, prefix, collection string) *Store {
	key := collection
	if prefix != "" {
		key = prefix + ":" + collection
	}
	return &Store{client: client, key: key}
}

func (s *Store) Name() string { return "redis" }

// Key 集合对应的Redis键
func (s *Store) Key() string { return s.key }

// Load 读取集合，键不存在时返回nil
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save 整体替换集合（不过期）
func (s *Store) Save(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
