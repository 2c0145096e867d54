package comment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// stubService 只实现评论相关方法，其余方法不会被调用
type stubService struct {
	book.Service
	mock.Mock
}

func (m *stubService) ListComments(ctx context.Context, asin string) ([]*book.Comment, error) {
	args := m.Called(ctx, asin)
	comments, _ := args.Get(0).([]*book.Comment)
	return comments, args.Error(1)
}

func (m *stubService) AddComment(ctx context.Context, asin string, c *book.Comment) ([]*book.Comment, error) {
	args := m.Called(ctx, asin, c)
	comments, _ := args.Get(0).([]*book.Comment)
	return comments, args.Error(1)
}

func (m *stubService) DeleteComment(ctx context.Context, asin, commentID string) (bool, error) {
	args := m.Called(ctx, asin, commentID)
	return args.Bool(0), args.Error(1)
}

type capture struct {
	events []event.Event
}

func (c *capture) Publish(ctx context.Context, e event.Event) error {
	c.events = append(c.events, e)
	return nil
}

func TestListCommentsUseCase(t *testing.T) {
	svc := new(stubService)
	svc.On("ListComments", mock.Anything, "NOPE").Return(nil, book.ErrBookNotFound)

	_, err := NewListCommentsUseCase(svc).Execute(context.Background(), "NOPE")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAddCommentUseCase(t *testing.T) {
	svc := new(stubService)
	extra := map[string]json.RawMessage{"rating": json.RawMessage(`5`)}

	svc.On("AddComment", mock.Anything, "B001", mock.MatchedBy(func(c *book.Comment) bool {
		return c.UserName == "ann" && c.Text == "hi" && string(c.Fields["rating"]) == "5" && c.ID == ""
	})).Return([]*book.Comment{{ID: "old"}, {ID: "new", UserName: "ann", Text: "hi"}}, nil)

	pub := &capture{}
	uc := NewAddCommentUseCase(svc, event.NewNotifier(pub, zap.NewNop()))

	comments, err := uc.Execute(context.Background(), AddCommentRequest{ASIN: "B001", UserName: "ann", Text: "hi", Extra: extra})
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.CommentAdded, pub.events[0].Type)
	assert.Equal(t, "new", pub.events[0].CommentID)
	svc.AssertExpectations(t)
}

func TestDeleteCommentUseCase(t *testing.T) {
	svc := new(stubService)
	svc.On("DeleteComment", mock.Anything, "B001", "c1").Return(true, nil)
	svc.On("DeleteComment", mock.Anything, "B001", "missing").Return(false, nil)
	svc.On("DeleteComment", mock.Anything, "NOPE", "c1").Return(false, book.ErrBookNotFound)

	pub := &capture{}
	uc := NewDeleteCommentUseCase(svc, event.NewNotifier(pub, zap.NewNop()))

	require.NoError(t, uc.Execute(context.Background(), "B001", "c1"))
	require.NoError(t, uc.Execute(context.Background(), "B001", "missing"), "评论不存在时同样成功")
	assert.ErrorIs(t, uc.Execute(context.Background(), "NOPE", "c1"), book.ErrBookNotFound)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.CommentDeleted, pub.events[0].Type)
	assert.Equal(t, "c1", pub.events[0].CommentID)
	t.Log("✅ 只有真正删除评论时才发布事件")
}
