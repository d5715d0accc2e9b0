package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type EventType string

const (
	EventLogin       EventType = "login"
	EventLogout      EventType = "logout"
	EventRefresh     EventType = "refresh"
	EventRegister    EventType = "register"
	EventRoleChanged EventType = "role_changed"
)

type Event struct {
	Type      EventType `json:"type"`
	ProfileID string    `json:"profileId"`
	Email     string    `json:"email,omitempty"`
	At        time.Time `json:"at"`
	// instance that published the event; set by the relay
	Origin string `json:"origin,omitempty"`
}

// Relay forwards events to other server instances.
type Relay interface {
	Publish(ctx context.Context, e Event) error
}

// Broker fans auth events out to in-process subscribers. Only the auth and admin flows publish.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]func(Event)
	next   uint64
	relay  Relay
	logger *zap.Logger
}

func NewBroker(logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{subs: map[uint64]func(Event){}, logger: logger}
}

// SetRelay attaches a cross-instance relay.
func (b *Broker) SetRelay(r Relay) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.relay = r
}

// Subscribe registers fn and returns a function that removes it.
// fn runs on the publisher's goroutine and must not block.
func (b *Broker) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish notifies local subscribers and forwards e through the relay.
func (b *Broker) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.notify(e)

	b.mu.RLock()
	relay := b.relay
	b.mu.RUnlock()
	if relay == nil {
		return
	}
	if err := relay.Publish(ctx, e); err != nil {
		b.logger.Warn("auth event relay failed", zap.String("type", string(e.Type)), zap.Error(err))
	}
}

func (b *Broker) notify(e Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

const eventsChannel = "session:events"

// RedisRelay carries events between instances over redis pub/sub.
type RedisRelay struct {
	client *redis.Client
	broker *Broker
	origin string
	logger *zap.Logger
}

func NewRedisRelay(client *redis.Client, broker *Broker, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, broker: broker, origin: uuid.NewString(), logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, e Event) error {
	e.Origin = r.origin
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, eventsChannel, raw).Err()
}

// Run delivers events from other instances to the local broker until ctx ends.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				r.logger.Warn("bad auth event payload", zap.Error(err))
				continue
			}
			if e.Origin == r.origin {
				continue
			}
			r.broker.notify(e)
		}
	}
}
