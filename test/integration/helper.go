package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcomment "github.com/xiebiao/bookshelf/internal/application/comment"
	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// 测试辅助工具
// 每个测试在进程内启动完整的HTTP服务（真实路由、中间件、json文件存储），
// 不依赖外部进程，go test ./test/integration/... 即可运行

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

// CommentData 评论响应数据
type CommentData struct {
	CommentID string `json:"commentID"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// TestServer 进程内的API服务
type TestServer struct {
	URL      string
	DataPath string
}

// StartServer 使用dataPath处的json文件启动服务，测试结束时自动关闭
// 同一个dataPath可以多次启动，用来模拟服务重启
func StartServer(t *testing.T, dataPath string) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Default()
	require.NoError(t, err, "加载默认配置失败")
	cfg.Store.Backend = config.BackendJSON
	cfg.Store.Path = dataPath
	cfg.Swagger.Enabled = false

	logger := zap.NewNop()
	repo, cleanup, err := persistence.NewRepository(cfg, logger)
	require.NoError(t, err, "创建存储失败")

	service := book.NewService(repo)
	notifier := event.NewNotifier(nil, logger)
	books := handler.NewBookHandler(
		appbook.NewListBooksUseCase(service),
		appbook.NewGetBookUseCase(service),
		appbook.NewCreateBookUseCase(service, notifier),
		appbook.NewUpdateBookUseCase(service, notifier),
		appbook.NewDeleteBookUseCase(service, notifier),
	)
	comments := handler.NewCommentHandler(
		appcomment.NewListCommentsUseCase(service),
		appcomment.NewAddCommentUseCase(service, notifier),
		appcomment.NewDeleteCommentUseCase(service, notifier),
	)

	srv := httptest.NewServer(router.New(cfg, logger, books, comments, nil))
	t.Cleanup(func() {
		srv.Close()
		cleanup()
	})
	return &TestServer{URL: srv.URL, DataPath: dataPath}
}

// NewDataPath 在测试临时目录下返回一个尚不存在的数据文件路径
func NewDataPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "books.json")
}

// Do 发送请求并解析统一响应，204等空响应体只返回状态码
func (s *TestServer) Do(t *testing.T, method, path string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		raw, ok := data.(string)
		if !ok {
			encoded, err := json.Marshal(data)
			require.NoError(t, err, "JSON序列化失败")
			raw = string(encoded)
		}
		body = bytes.NewBufferString(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := &Response{Status: resp.StatusCode}
	if len(payload) > 0 {
		require.NoError(t, json.Unmarshal(payload, result), "解析JSON响应失败: %s", string(payload))
	}
	return result
}

// GetJSON 发送GET请求
func (s *TestServer) GetJSON(t *testing.T, path string) *Response {
	return s.Do(t, http.MethodGet, path, nil)
}

// PostJSON 发送POST请求
func (s *TestServer) PostJSON(t *testing.T, path string, data interface{}) *Response {
	return s.Do(t, http.MethodPost, path, data)
}

// PutJSON 发送PUT请求
func (s *TestServer) PutJSON(t *testing.T, path string, data interface{}) *Response {
	return s.Do(t, http.MethodPut, path, data)
}

// Delete 发送DELETE请求
func (s *TestServer) Delete(t *testing.T, path string) *Response {
	return s.Do(t, http.MethodDelete, path, nil)
}

var asinSeq atomic.Int64

// GenerateTestASIN 生成唯一的测试ASIN
func GenerateTestASIN() string {
	return fmt.Sprintf("BT%08d", asinSeq.Add(1))
}

// CreateTestBook 创建测试图书并返回ASIN
func CreateTestBook(t *testing.T, s *TestServer, fields map[string]interface{}) string {
	t.Helper()
	asin := GenerateTestASIN()
	req := map[string]interface{}{"asin": asin}
	for k, v := range fields {
		req[k] = v
	}

	resp := s.PostJSON(t, "/books", req)
	require.Equal(t, http.StatusCreated, resp.Status, "创建图书失败: %s", resp.Message)
	return asin
}

// DecodeData 解析响应中的data
func DecodeData(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), "解析响应数据失败: %s", string(resp.Data))
}
