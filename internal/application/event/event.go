// Package event 领域事件的定义与发布
//
// 写操作成功持久化之后发布事件，事件发布失败只记录日志与指标，
// 不影响请求结果（事件是通知，不是事务的一部分）。
package event

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// 事件类型，同时作为RabbitMQ的routing key
const (
	BookCreated    = "book.created"
	BookUpdated    = "book.updated"
	BookDeleted    = "book.deleted"
	CommentAdded   = "comment.added"
	CommentDeleted = "comment.deleted"
)

// publishTimeout 单次发布的最长等待时间
const publishTimeout = 2 * time.Second

// Event 领域事件
type Event struct {
	Type       string    `json:"type"`
	ASIN       string    `json:"asin"`
	CommentID  string    `json:"commentId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher 不发布任何事件（events.enabled=false）
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Notifier 用例使用的事件出口
// 负责填充发生时间、记录指标、吞掉发布错误
type Notifier struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifier 创建事件出口
func NewNotifier(publisher Publisher, logger *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Notifier{publisher: publisher, logger: logger, now: time.Now}
}

// Notify 发布一个事件
// 使用脱离请求取消的context，客户端断开不会中断已经成功的写操作的通知
func (n *Notifier) Notify(ctx context.Context, eventType, asin, commentID string) {
	e := Event{
		Type:       eventType,
		ASIN:       asin,
		CommentID:  commentID,
		OccurredAt: n.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := n.publisher.Publish(ctx, e)
	if _, nop := n.publisher.(NopPublisher); !nop {
		metrics.RecordEvent(eventType, err)
	}
	if err != nil {
		n.logger.Warn("事件发布失败",
			zap.String("type", eventType),
			zap.String("asin", asin),
			zap.Error(err),
		)
	}
}
