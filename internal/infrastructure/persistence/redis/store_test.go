package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	redisstore "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/storetest"
)

// 需要真实的Redis：BOOKSHELF_TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestStore(t *testing.T) {
	addr := os.Getenv("BOOKSHELF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置BOOKSHELF_TEST_REDIS_ADDR，跳过Redis测试")
	}

	n := 0
	storetest.Run(t, func(t *testing.T) persistence.Backend {
		client, err := redisstore.NewClient(context.Background(), config.RedisConfig{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
		}, zap.NewNop())
		require.NoError(t, err)

		// 每个子测试使用独立的键
		n++
		return redisstore.NewStore(client, fmt.Sprintf("bookshelf-test-%d", time.Now().UnixNano()), fmt.Sprintf("books-%d", n))
	})
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), config.RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	}, zap.NewNop())
	require.Error(t, err)
}
