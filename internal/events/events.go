// Package events publishes domain events to Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis channel carrying every domain event.
const Channel = "inkwell:events"

// Event type constants prevent typos in event names.
const (
	PostCreated         = "post_created"
	PostUpdated         = "post_updated"
	PostDeleted         = "post_deleted"
	PostReactionUpdated = "post_reaction_updated"
	CommentCreated      = "comment_created"
)

// Event is the envelope written to the channel.
type Event struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Publisher delivers events. Publishing is best effort and never fails a request.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{})
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, map[string]interface{}) {}

// RedisPublisher publishes events to Channel.
type RedisPublisher struct {
	rdb *redis.Client
	log *slog.Logger
	now func() time.Time
}

// NewRedisPublisher creates a publisher. A nil client makes it a no-op.
func NewRedisPublisher(rdb *redis.Client, log *slog.Logger) *RedisPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, log: log.With(slog.String("component", "events")), now: time.Now}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if p == nil || p.rdb == nil {
		return
	}

	data, err := json.Marshal(Event{Type: eventType, Payload: payload, OccurredAt: p.now().UTC()})
	if err != nil {
		p.fail(ctx, eventType, fmt.Errorf("marshal event: %w", err))
		return
	}
	// The request may finish before Redis answers; keep its values but not its cancellation.
	if err := p.rdb.Publish(context.WithoutCancel(ctx), Channel, data).Err(); err != nil {
		p.fail(ctx, eventType, err)
	}
}

func (p *RedisPublisher) fail(ctx context.Context, eventType string, err error) {
	observability.EventPublishErrors.WithLabelValues(eventType).Inc()
	p.log.WarnContext(ctx, "failed to publish event",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// Subscribe delivers decoded events from Channel to onEvent until ctx is done.
func Subscribe(ctx context.Context, rdb *redis.Client, log *slog.Logger, onEvent func(Event)) error {
	if rdb == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	sub := rdb.Subscribe(ctx, Channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn("dropping malformed event", slog.String("error", err.Error()))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Error("panic in event handler",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewRedisClient builds a client from a redis:// URL or a bare host:port.
// An empty address returns nil, which disables event publication.
func NewRedisClient(addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client, nil
}
