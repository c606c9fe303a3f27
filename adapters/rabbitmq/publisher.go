// Package rabbitmq announces registrations on a RabbitMQ queue.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"myusers/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventTypeUserRegistered is the type header and body field of a registration event.
const EventTypeUserRegistered = "user.registered"

var errPublisherClosed = errors.New("rabbitmq publisher is closed")

type amqpConnection interface {
	IsClosed() bool
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// session is one connection with the channel opened on it.
type session struct {
	conn    amqpConnection
	channel amqpChannel
}

func (s *session) closed() bool {
	return s.conn.IsClosed() || s.channel.IsClosed()
}

func (s *session) close() error {
	_ = s.channel.Close()
	return s.conn.Close()
}

type dialFunc func(url, queue string) (*session, error)

// dialSession dials url, opens a channel and declares the durable queue.
func dialSession(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("cant dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("cant open rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("cant declare rabbitmq queue %s: %w", queue, err)
	}

	return &session{conn: conn, channel: ch}, nil
}

// Publisher publishes domain events to a durable queue over one channel.
// A session dropped by the broker is replaced on the next publish.
type Publisher struct {
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	url     string
	queue   string
	dial    dialFunc
	session *session // nil until redialed after a failure
	closed  bool
}

// NewPublisher dials url and declares the durable queue.
func NewPublisher(url, queue string) (*Publisher, error) {
	return newPublisher(url, queue, dialSession)
}

func newPublisher(url, queue string, dial dialFunc) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("rabbitmq queue is required")
	}

	s, err := dial(url, queue)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		url:     url,
		queue:   queue,
		dial:    dial,
		session: s,
	}, nil
}

type userRegisteredMessage struct {
	Type         string    `json:"type"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

func encodeUserRegistered(event domain.UserRegistered) ([]byte, error) {
	return json.Marshal(userRegisteredMessage{
		Type:         EventTypeUserRegistered,
		Email:        event.Email,
		Name:         event.Name,
		RegisteredAt: event.RegisteredAt.UTC(),
	})
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, event domain.UserRegistered) error {
	body, err := encodeUserRegistered(event)
	if err != nil {
		return fmt.Errorf("cant encode user registered event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.RegisteredAt,
		Type:         EventTypeUserRegistered,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errPublisherClosed
	}

	err = p.publishLocked(ctx, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// the broker dropped the session after it was last checked
		p.dropSessionLocked()
		err = p.publishLocked(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("cant publish to rabbitmq queue %s: %w", p.queue, err)
	}
	return nil
}

func (p *Publisher) publishLocked(ctx context.Context, msg amqp.Publishing) error {
	if p.session != nil && p.session.closed() {
		p.dropSessionLocked()
	}
	if p.session == nil {
		s, err := p.dial(p.url, p.queue)
		if err != nil {
			return err
		}
		p.session = s
	}
	return p.session.channel.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func (p *Publisher) dropSessionLocked() {
	if p.session != nil {
		_ = p.session.close()
		p.session = nil
	}
}

// Close closes the underlying channel and connection. Later publishes fail.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.session == nil {
		return nil
	}
	err := p.session.close()
	p.session = nil
	return err
}
