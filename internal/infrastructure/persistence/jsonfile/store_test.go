package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/jsonfile"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/storetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) persistence.Backend {
		s, err := jsonfile.New(filepath.Join(t.TempDir(), "data", "books.json"))
		require.NoError(t, err)
		return s
	})
}

func TestStore_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")
	s, err := jsonfile.New(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte(`[{"asin":"B001"}]`)))
	require.NoError(t, s.Save(ctx, []byte(`[{"asin":"B002"}]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"asin":"B002"}]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "不应残留临时文件")
	t.Log("✅ 写入通过临时文件+rename完成")
}

func TestStore_CanceledContext(t *testing.T) {
	s, err := jsonfile.New(filepath.Join(t.TempDir(), "books.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, []byte(`[]`)), context.Canceled)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "取消后不应写入文件")
}
