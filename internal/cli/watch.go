package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/mq"
)

// NewWatchCmd создаёт команду, печатающую события из RabbitMQ.
func NewWatchCmd(outputFn func() *Output) *cobra.Command {
	var (
		amqpURL     string
		pattern     string
		sessionID   string
		conversions bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream session or conversion events from the message broker",
		Long: `Watch binds a temporary queue to the session events exchange and
prints every event until interrupted. --pattern narrows the events by
routing key (for example "session.*" or "animation.started").
With --conversions it consumes the durable queue of stored conversions
instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			ctx := cmd.Context()

			conn, err := mq.NewConnection(mq.ConnectionConfig{URL: amqpURL})
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := mq.SetupTopology(ctx, conn); err != nil {
				return err
			}

			queue := mq.QueueConversionsCompleted
			if !conversions {
				queue, err = mq.DeclareWatchQueue(ctx, conn, mq.RoutingKey(pattern))
				if err != nil {
					return err
				}
			}

			out.Success(fmt.Sprintf("Watching %s, press Ctrl+C to stop", queue))

			consumer := mq.NewConsumer(conn, mq.ConsumerConfig{
				Queue:          queue,
				Handler:        eventPrinter(out, sessionID),
				RequeueOnError: false,
			})

			err = consumer.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	defaultURL := os.Getenv("RABBITMQ_URL")
	if defaultURL == "" {
		defaultURL = mq.DefaultURL()
	}

	cmd.Flags().StringVar(&amqpURL, "amqp-url", defaultURL, "RabbitMQ URL (env RABBITMQ_URL)")
	cmd.Flags().StringVar(&pattern, "pattern", string(mq.RoutingKeyAllSessions), "Routing key pattern for session events")
	cmd.Flags().StringVar(&sessionID, "session", "", "Show only events of this session")
	cmd.Flags().BoolVar(&conversions, "conversions", false, "Consume stored conversion events instead")

	return cmd
}

// eventPrinter возвращает обработчик, печатающий события.
// Неизвестные типы сообщений пропускаются.
func eventPrinter(out *Output, sessionID string) mq.Handler {
	return func(_ context.Context, d *mq.Delivery) error {
		msg := &d.Message

		switch msg.Type {
		case mq.MessageTypeSessionEvent:
			ev, err := mq.ParsePayload[domain.SessionEvent](msg)
			if err != nil {
				return err
			}
			if sessionID != "" && ev.SessionID.String() != sessionID {
				return nil
			}
			if out.JSONMode() {
				out.JSON(ev)
				return nil
			}
			out.Line("%s  %-18s %s  %s", ev.OccurredAt.Format("15:04:05.000"), ev.Type, ev.SessionID, describeEvent(ev))

		case mq.MessageTypeConversionCompleted:
			payload, err := mq.ParsePayload[mq.ConversionCompletedPayload](msg)
			if err != nil {
				return err
			}
			if out.JSONMode() {
				out.JSON(payload)
				return nil
			}
			line := fmt.Sprintf("%s  conversion %s  automaton %s  %s  %d states, %d steps",
				msg.Timestamp.Format("15:04:05.000"), payload.ConversionID, payload.AutomatonID,
				payload.Status, payload.States, payload.Steps)
			if payload.Error != "" {
				line += ": " + payload.Error
			}
			out.Line("%s", line)
		}

		return nil
	}
}

func describeEvent(ev domain.SessionEvent) string {
	switch ev.Type {
	case domain.EventStep:
		return fmt.Sprintf("#%d %s (%d states, %d pending)", ev.StepIndex, ev.Description, ev.States, ev.Pending)
	case domain.EventFailed:
		return ev.Description
	default:
		return fmt.Sprintf("%d states, %d pending", ev.States, ev.Pending)
	}
}
