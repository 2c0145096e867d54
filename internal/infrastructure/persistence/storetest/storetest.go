// Package storetest 所有集合存储后端共用的一致性测试
//
// 用法（在后端包的_test.go中）：
//
//	func TestStore(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) persistence.Backend {
//	        return memory.New(nil)
//	    })
//	}
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Factory 为每个子测试返回一个全新的空后端
type Factory func(t *testing.T) persistence.Backend

const sample = `[
	{"asin":"B001","category":"scifi","title":"Dune","meta":{"pages":412}},
	{"asin":"B002","comments":[{"commentID":"c1","userName":"ann","text":"hi","createdAt":"2024-01-01T00:00:00Z","mood":"ok"}]}
]`

// Run 执行一致性测试
func Run(t *testing.T, open Factory) {
	t.Helper()

	newRepo := func(t *testing.T) (persistence.Backend, *persistence.CollectionRepository) {
		b := open(t)
		t.Cleanup(func() { _ = b.Close() })
		return b, persistence.NewCollectionRepository(b, nil, nil)
	}

	t.Run("空存储返回空集合", func(t *testing.T) {
		b, repo := newRepo(t)

		data, err := b.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, data)

		books, err := repo.GetAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("写入后读取内容一致", func(t *testing.T) {
		_, repo := newRepo(t)
		ctx := context.Background()

		want, err := book.DecodeCollection([]byte(sample))
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceAll(ctx, want))

		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(encode(t, want), encode(t, got)); diff != "" {
			t.Errorf("读取结果与写入不一致 (-want +got):\n%s", diff)
		}
	})

	t.Run("ReplaceAll整体替换而不是追加", func(t *testing.T) {
		_, repo := newRepo(t)
		ctx := context.Background()

		first, _ := book.DecodeCollection([]byte(sample))
		require.NoError(t, repo.ReplaceAll(ctx, first))
		require.NoError(t, repo.ReplaceAll(ctx, []*book.Book{{ASIN: "B009"}}))

		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "B009", got[0].ASIN)

		require.NoError(t, repo.ReplaceAll(ctx, nil))
		got, err = repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("读取结果与存储互相独立", func(t *testing.T) {
		_, repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.ReplaceAll(ctx, []*book.Book{{ASIN: "B001"}}))
		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		got[0].ASIN = "MUTATED"

		again, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "B001", again[0].ASIN)
	})

	t.Run("损坏数据返回存储错误", func(t *testing.T) {
		b, repo := newRepo(t)
		require.NoError(t, b.Save(context.Background(), []byte(`[{"asin":`)))

		_, err := repo.GetAll(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrStoreError)
	})

	t.Run("并发读写不会读到半截数据", func(t *testing.T) {
		_, repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.ReplaceAll(ctx, []*book.Book{{ASIN: "seed"}}))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				books := make([]*book.Book, 0, i+1)
				for j := 0; j <= i; j++ {
					books = append(books, &book.Book{ASIN: fmt.Sprintf("W%d-%d", i, j)})
				}
				assert.NoError(t, repo.ReplaceAll(ctx, books))
			}(i)
			go func() {
				defer wg.Done()
				books, err := repo.GetAll(ctx)
				assert.NoError(t, err)
				assert.NotEmpty(t, books)
			}()
		}
		wg.Wait()
	})
}

func encode(t *testing.T, books []*book.Book) interface{} {
	t.Helper()
	data, err := book.EncodeCollection(books)
	require.NoError(t, err)
	var v interface{}
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
