package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var ErrBridgeStarted = errors.New("realtime bridge already started")

type bridgeMessage struct {
	Room  string          `json:"room"`
	Frame json.RawMessage `json:"frame"`
}

// RedisBridge fans frames out to every instance subscribed to one pub/sub
// channel.
type RedisBridge struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisBridge(client *redis.Client, channel string, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *RedisBridge) Publish(ctx context.Context, room string, frame []byte) error {
	data, err := json.Marshal(bridgeMessage{Room: room, Frame: frame})
	if err != nil {
		return fmt.Errorf("failed to encode bridge message: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", b.channel, err)
	}
	return nil
}

// Start subscribes to the channel and returns once the subscription is
// confirmed. deliver runs on the bridge goroutine.
func (b *RedisBridge) Start(ctx context.Context, deliver func(room string, frame []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pubsub != nil {
		return ErrBridgeStarted
	}

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	b.pubsub = pubsub
	b.done = make(chan struct{})
	go b.listen(pubsub.Channel(), deliver, b.done)

	b.logger.Info("Realtime bridge subscribed", zap.String("channel", b.channel))
	return nil
}

func (b *RedisBridge) listen(messages <-chan *redis.Message, deliver func(string, []byte), done chan struct{}) {
	defer close(done)
	for msg := range messages {
		var m bridgeMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			b.logger.Warn("Ignoring malformed bridge message", zap.Error(err))
			continue
		}
		deliver(m.Room, m.Frame)
	}
}

func (b *RedisBridge) Stop() error {
	b.mu.Lock()
	pubsub, done := b.pubsub, b.done
	b.pubsub, b.done = nil, nil
	b.mu.Unlock()

	if pubsub == nil {
		return nil
	}

	err := pubsub.Close()
	<-done
	return err
}
