package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
	"github.com/rabbitmq/amqp091-go"
)

var _ workers.Notifier = (*AMQPNotifier)(nil)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes reminders as persistent JSON messages on a durable
// direct exchange, routed to the reminder queue.
type AMQPNotifier struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	pub          publisher
	exchangeName string
	queueName    string
	logger       *applog.Logger
}

func NewAMQPNotifier(url, exchangeName, queueName string, logger *applog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:         conn,
		channel:      channel,
		pub:          channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.WithComponent(applog.ComponentAMQP),
	}

	if err := n.setup(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup() error {
	if err := n.channel.ExchangeDeclare(n.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := n.channel.QueueDeclare(n.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Direct exchange: the routing key is the queue name.
	if err := n.channel.QueueBind(n.queueName, n.queueName, n.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, r domain.Reminder) error {
	body, err := NewReminderMessage(r).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.pub.PublishWithContext(ctx, n.exchangeName, n.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         ReminderMessageType,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	n.logger.InfoContext(ctx, "published habit reminder",
		applog.FieldHabitID, r.HabitID,
		applog.FieldUserID, r.UserID,
		"exchange", n.exchangeName,
		"queue", n.queueName)

	return nil
}

func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
