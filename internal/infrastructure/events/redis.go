package events

import (
	"context"
	"encoding/json"
	"log"

	"chequemate-backend/internal/domain/events"

	"github.com/redis/go-redis/v9"
)

// Channel carries every cheque status transition; operator consoles subscribe
// instead of re-polling shared state.
const Channel = "cheque.events"

type RedisPublisher struct{ rdb *redis.Client }

var _ events.Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher { return &RedisPublisher{rdb: rdb} }

func (p *RedisPublisher) PublishTransition(ctx context.Context, evt events.TransitionEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("events: marshal transition for cheque %s: %v", evt.ChequeID, err)
		return
	}
	// best-effort: a dropped event never fails the transition behind it
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("events: publish transition for cheque %s: %v", evt.ChequeID, err)
	}
}

// Subscribe returns a channel of transition events plus a stop function.
// Used by the SSE endpoint.
func Subscribe(ctx context.Context, rdb *redis.Client) (<-chan events.TransitionEvent, func()) {
	sub := rdb.Subscribe(ctx, Channel)
	out := make(chan events.TransitionEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var evt events.TransitionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("events: bad payload on %s: %v", Channel, err)
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
