package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.Equal(t, "data/books.json", cfg.Store.Path)
	assert.Equal(t, "books", cfg.Store.Collection)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, uint32(5), cfg.Breaker.FailureThreshold)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	t.Log("✅ 没有配置文件时使用默认值")
}

func TestLoad_SearchPathAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, "config/config.yaml", `
server:
  port: 9000
store:
  backend: bolt
  path: data/books.db
`)
	writeFile(t, dir, "config/config.prod.yaml", `
server:
  port: 9100
  mode: release
store:
  backend: memory
`)

	t.Run("默认读取config/config.yaml", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, BackendBolt, cfg.Store.Backend)
		assert.Equal(t, "data/books.db", cfg.Store.Path)
	})

	t.Run("BOOKSHELF_ENV选择环境配置", func(t *testing.T) {
		t.Setenv(EnvName, "prod")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9100, cfg.Server.Port)
		assert.Equal(t, BackendMemory, cfg.Store.Backend)
	})

	t.Run("环境变量覆盖文件", func(t *testing.T) {
		t.Setenv("BOOKSHELF_SERVER_PORT", "9200")
		t.Setenv("BOOKSHELF_STORE_COLLECTION", "library")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9200, cfg.Server.Port)
		assert.Equal(t, "library", cfg.Store.Collection)
	})

	t.Run("BOOKSHELF_CONFIG指定的文件必须存在", func(t *testing.T) {
		t.Setenv(EnvConfig, filepath.Join(dir, "missing.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "BOOKSHELF_STORE_BACKEND=memory\n")
	t.Cleanup(func() { os.Unsetenv("BOOKSHELF_STORE_BACKEND") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", `
server:
  port: 8081
  read_timeout: 2s
  rate_limit:
    enabled: true
    rps: 5
    burst: 10
store:
  backend: redis
redis:
  addr: cache:6379
  key_prefix: shelf
events:
  enabled: true
  url: amqp://mq:5672/
  exchange: books
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 5.0, cfg.Server.RateLimit.RPS)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "shelf", cfg.Redis.KeyPrefix)
	assert.Equal(t, "books", cfg.Events.Exchange)
	assert.Equal(t, ":8081", cfg.Server.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Default()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"未知运行模式", func(c *Config) { c.Server.Mode = "prod" }},
		{"未知存储后端", func(c *Config) { c.Store.Backend = "s3" }},
		{"json后端缺少路径", func(c *Config) { c.Store.Path = "" }},
		{"mysql后端缺少DSN", func(c *Config) { c.Store.Backend = BackendMySQL; c.Database.DSN = "" }},
		{"集合名为空", func(c *Config) { c.Store.Collection = "" }},
		{"熔断阈值为0", func(c *Config) { c.Breaker.FailureThreshold = 0 }},
		{"限流参数非法", func(c *Config) { c.Server.RateLimit.Enabled = true; c.Server.RateLimit.RPS = 0 }},
		{"事件缺少URL", func(c *Config) { c.Events.Enabled = true; c.Events.URL = "" }},
	}

	require.NoError(t, validate(base()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}
}
