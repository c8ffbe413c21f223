package realtime

import (
	"context"
	"encoding/json"

	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// channelPrefix namespaces feed traffic on the shared Redis instance.
const channelPrefix = "feed:"

// Publisher emits change events onto Redis pub/sub so every server instance
// can fan them out to its websocket subscribers. Publishing is best-effort:
// the row is already committed, so failures are logged, never propagated.
type Publisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(rdb *redis.Client, log zerolog.Logger) *Publisher {
	return &Publisher{
		rdb: rdb,
		log: log.With().Str("component", "feed_publisher").Logger(),
	}
}

// PublishInsert emits an insert event carrying the new row image.
func (p *Publisher) PublishInsert(ctx context.Context, table feed.Table, scope string, row interface{}) {
	p.publish(ctx, feed.Event{Kind: feed.KindInsert, Table: table, Scope: scope}, row, nil)
}

// PublishUpdate emits an update event carrying the new row image.
func (p *Publisher) PublishUpdate(ctx context.Context, table feed.Table, scope string, row interface{}) {
	p.publish(ctx, feed.Event{Kind: feed.KindUpdate, Table: table, Scope: scope}, row, nil)
}

// PublishDelete emits a delete event carrying the old row image.
func (p *Publisher) PublishDelete(ctx context.Context, table feed.Table, scope string, old interface{}) {
	p.publish(ctx, feed.Event{Kind: feed.KindDelete, Table: table, Scope: scope}, nil, old)
}

func (p *Publisher) publish(ctx context.Context, ev feed.Event, newRow, oldRow interface{}) {
	var err error
	if newRow != nil {
		if ev.New, err = json.Marshal(newRow); err != nil {
			p.log.Error().Err(err).Str("scope", ev.Scope).Msg("Marshal new row failed")
			return
		}
	}
	if oldRow != nil {
		if ev.Old, err = json.Marshal(oldRow); err != nil {
			p.log.Error().Err(err).Str("scope", ev.Scope).Msg("Marshal old row failed")
			return
		}
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("scope", ev.Scope).Msg("Marshal event failed")
		return
	}

	if err := p.rdb.Publish(ctx, channelPrefix+ev.Scope, payload).Err(); err != nil {
		p.log.Error().Err(err).Str("scope", ev.Scope).Msg("Publish event failed")
	}
}
