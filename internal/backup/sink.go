// Package backup delivers export payloads to remote sinks and tracks the
// status of the most recent attempt.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	maxBodySize    = 1 << 16 // 64 KB, only drained
)

var (
	// ErrNoWebhook indicates no webhook URL is configured.
	ErrNoWebhook = errors.New("backup: no webhook url configured")
	// ErrNoSink indicates no sink is configured at all.
	ErrNoSink = errors.New("backup: no sink configured")
)

// Sink receives an encoded payload.
type Sink interface {
	Name() string
	Send(ctx context.Context, payload []byte) error
}

// WebhookSink POSTs the payload as JSON. The response body is ignored;
// only the status code is checked.
type WebhookSink struct {
	url  string
	http *http.Client
}

// NewWebhookSink creates a sink for url. An empty url yields a sink whose
// Send reports ErrNoWebhook.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url:  strings.TrimSpace(url),
		http: &http.Client{Timeout: requestTimeout},
	}
}

// Name implements Sink.
func (w *WebhookSink) Name() string { return "webhook" }

// Send implements Sink.
func (w *WebhookSink) Send(ctx context.Context, payload []byte) error {
	if w.url == "" {
		return ErrNoWebhook
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("backup: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "khata/1.0")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("backup: posting to webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backup: webhook returned %d", resp.StatusCode)
	}
	return nil
}

// AMQPSink publishes the payload as a persistent message on a durable
// direct exchange. It dials per Send; backups are rare.
type AMQPSink struct {
	url         string
	exchange    string
	queue       string
	dialTimeout time.Duration
}

// NewAMQPSink creates a sink publishing to exchange, routed to queue.
func NewAMQPSink(url, exchange, queue string, dialTimeout time.Duration) *AMQPSink {
	if dialTimeout <= 0 {
		dialTimeout = requestTimeout
	}
	return &AMQPSink{url: url, exchange: exchange, queue: queue, dialTimeout: dialTimeout}
}

// Name implements Sink.
func (a *AMQPSink) Name() string { return "amqp" }

// Send implements Sink.
func (a *AMQPSink) Send(ctx context.Context, payload []byte) error {
	conn, err := amqp091.DialConfig(a.url, amqp091.Config{
		Dial: amqp091.DefaultDial(a.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("backup: dial amqp: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("backup: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(
		a.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("backup: declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		a.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("backup: declare queue: %w", err)
	}

	// Routing key is the queue name.
	if err := ch.QueueBind(a.queue, a.queue, a.exchange, false, nil); err != nil {
		return fmt.Errorf("backup: bind queue: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := ch.PublishWithContext(
		ctx,
		a.exchange, // exchange
		a.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	); err != nil {
		return fmt.Errorf("backup: publish: %w", err)
	}
	return nil
}

// FanOut sends to every sink concurrently. It succeeds only if every
// sink succeeds.
type FanOut []Sink

// Name implements Sink.
func (f FanOut) Name() string {
	names := make([]string, len(f))
	for i, s := range f {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Send implements Sink. Errors from every failing sink are joined.
func (f FanOut) Send(ctx context.Context, payload []byte) error {
	if len(f) == 0 {
		return ErrNoSink
	}

	errs := make([]error, len(f))
	var g errgroup.Group
	for i, s := range f {
		g.Go(func() error {
			if err := s.Send(ctx, payload); err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Targets lists where a backup can go. Empty fields are skipped.
type Targets struct {
	WebhookURL   string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	DialTimeout  time.Duration
}

// SinkFor builds the sink for the configured targets: the single sink
// when only one is set, a FanOut when both are, nil when neither is.
func SinkFor(t Targets) Sink {
	var sinks FanOut
	if strings.TrimSpace(t.WebhookURL) != "" {
		sinks = append(sinks, NewWebhookSink(t.WebhookURL))
	}
	if strings.TrimSpace(t.AMQPURL) != "" {
		sinks = append(sinks, NewAMQPSink(t.AMQPURL, t.AMQPExchange, t.AMQPQueue, t.DialTimeout))
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}
