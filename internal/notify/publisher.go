// Package notify publishes application lifecycle events to a message queue
// so downstream consumers (mailers, dashboards) can react without the
// intake path knowing about them. The publisher is optional: a nil
// *Publisher is a no-op, and publish failures never fail the operation that
// produced the event.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/joblane/joblane/internal/apperr"
)

const queueName = "application_events"

// Event kinds emitted by the services.
const (
	EventApplicationSubmitted = "application.submitted"
	EventStatusChanged        = "application.status_changed"
)

// ApplicationEvent is the JSON payload placed on the queue.
type ApplicationEvent struct {
	Kind          string    `json:"kind"`
	JobID         string    `json:"job_id"`
	ApplicationID string    `json:"application_id"`
	ApplicantID   string    `json:"applicant_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewPublisher connects to the broker and declares the durable event queue.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, apperr.Wrap(err, "failed to open channel")
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, apperr.Wrap(err, "failed to declare queue")
	}

	return &Publisher{conn: conn, channel: ch, queue: q}, nil
}

// Publish sends one event. Safe on a nil receiver so wiring can skip the
// broker entirely when AMQP_URL is unset.
func (p *Publisher) Publish(ctx context.Context, event ApplicationEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return apperr.Wrap(err, "failed to encode event")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",           // exchange
		p.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.channel.Close()
	p.conn.Close()
}
