package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// dialTimeout caps the TCP connect plus AMQP handshake.
	dialTimeout = 5 * time.Second
	// redialBackoff is how long Publish fails fast after a failed dial.
	redialBackoff = 5 * time.Second
)

// ErrBrokerUnavailable is returned while the publisher is backing off after
// a failed dial.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// Publisher sends AuthEvents to a durable queue over one long-lived
// connection.  A broken connection is redialed on the next Publish, bounded
// by the caller's context.
type Publisher struct {
	url   string
	queue string

	// sem is a one-slot lock that callers can stop waiting on when their
	// context ends.
	sem     chan struct{}
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
	now     func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.  No connection is
// made until the first Publish.
func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = AuthEventsQueue
	}
	return &Publisher{url: url, queue: queue, sem: make(chan struct{}, 1), now: time.Now}
}

// Publish marshals ev and publishes it as a persistent message.  It returns
// once ctx is done even if the broker never answers.
func (p *Publisher) Publish(ctx context.Context, ev AuthEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.lock(ctx); err != nil {
		return err
	}
	defer p.unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close shuts the channel and connection down.
func (p *Publisher) Close() error {
	p.sem <- struct{}{}
	defer p.unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return errors.Join(errs...)
}

func (p *Publisher) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) unlock() { <-p.sem }

// channel returns an open channel, dialing if needed.  Caller holds sem.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	if p.now().Before(p.retryAt) {
		return nil, ErrBrokerUnavailable
	}

	timeout := dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return nil, ctx.Err()
		}
		timeout = min(timeout, left)
	}

	conn, err := dial(p.url, timeout)
	if err != nil {
		p.retryAt = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := declare(ch, p.queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// dial connects to the broker.  timeout bounds both the TCP connect and the
// AMQP handshake, so a peer that accepts but never speaks cannot stall us.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// declare makes sure the durable queue exists.
func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return q, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}
