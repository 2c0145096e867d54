package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookshelf/internal/application/event"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var routingKeys []string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "订阅并打印领域事件，Ctrl+C退出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zlog, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = zlog.Sync() }()

			// 临时队列，退出后由RabbitMQ自动删除
			consumer, err := mq.NewConsumer(cfg.Events.URL, mq.ConsumerOptions{
				Exchange:     cfg.Events.Exchange,
				ExchangeType: event.ExchangeType,
				RoutingKeys:  routingKeys,
			}, zlog)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return consumer.Consume(ctx, func(msg mq.Message) error {
				_, err := fmt.Fprintf(out, "%s\t%s\t%s\n",
					msg.Timestamp.UTC().Format(time.RFC3339), msg.RoutingKey, msg.Body)
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&routingKeys, "key", []string{"book.*", "comment.*"}, "订阅的routing key，支持通配符")
	return cmd
}
