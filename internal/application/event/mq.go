package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/mq"
)

// ExchangeType 事件使用topic exchange，消费端可以按book.*、comment.*订阅
const ExchangeType = "topic"

// MQPublisher 通过RabbitMQ发布事件
type MQPublisher struct {
	publisher *mq.Publisher
}

// NewMQPublisher 连接RabbitMQ并声明exchange
func NewMQPublisher(url, exchange string, logger *zap.Logger) (*MQPublisher, error) {
	p, err := mq.NewPublisher(url, exchange, ExchangeType, logger)
	if err != nil {
		return nil, err
	}
	return &MQPublisher{publisher: p}, nil
}

// Publish 以事件类型作为routing key
func (p *MQPublisher) Publish(ctx context.Context, e Event) error {
	return p.publisher.Publish(ctx, e.Type, e)
}

func (p *MQPublisher) Close() error {
	return p.publisher.Close()
}
