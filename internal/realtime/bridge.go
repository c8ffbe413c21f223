package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Bridge consumes the Redis feed channels and replays events into the
// in-process dispatcher. One bridge runs per server instance.
type Bridge struct {
	rdb        *redis.Client
	dispatcher *Dispatcher
	log        zerolog.Logger
}

// NewBridge creates a Bridge.
func NewBridge(rdb *redis.Client, dispatcher *Dispatcher, log zerolog.Logger) *Bridge {
	return &Bridge{
		rdb:        rdb,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "feed_bridge").Logger(),
	}
}

// Run blocks until ctx is cancelled, forwarding every published change event
// to local subscribers.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	b.log.Info().Msg("Feed bridge started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("Feed bridge stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev feed.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Error().Err(err).Str("channel", msg.Channel).Msg("Invalid event payload")
				continue
			}
			if ev.Scope == "" {
				ev.Scope = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			b.dispatcher.Publish(ev)
		}
	}
}
