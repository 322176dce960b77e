package notify

import (
    "context"
    "encoding/json"
    "fmt"
    "log"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/performer-booking/internal/model"
)

// RedisNotifier fans events out over Redis Pub/Sub so every running
// instance of the service sees changes applied by any of them.  Each
// actor gets their own channel; Redis Pub/Sub is fire-and-forget, which
// matches the at-most-once best-effort contract exactly.
type RedisNotifier struct {
    rdb    *redis.Client
    prefix string
}

// NewRedisNotifier returns a notifier publishing on the given client.
// prefix namespaces the channels (default "booking.refresh").
func NewRedisNotifier(rdb *redis.Client, prefix string) *RedisNotifier {
    if prefix == "" {
        prefix = "booking.refresh"
    }
    return &RedisNotifier{rdb: rdb, prefix: prefix}
}

func (r *RedisNotifier) channel(actorID uint64) string {
    return fmt.Sprintf("%s.%d", r.prefix, actorID)
}

// Publish serializes ev as JSON onto the actor's channel.  Errors are
// returned for logging but callers treat delivery as best-effort and
// never retry.
func (r *RedisNotifier) Publish(ctx context.Context, actorID uint64, ev model.BookingChangedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    return r.rdb.Publish(ctx, r.channel(actorID), body).Err()
}

// Subscribe opens a Redis subscription on the actor's channel and bridges
// it onto a typed Go channel.  Messages that fail to decode are logged
// and skipped.  The returned cancel function closes the subscription and,
// through it, the bridge goroutine.
func (r *RedisNotifier) Subscribe(ctx context.Context, actorID uint64) (<-chan model.BookingChangedEvent, func(), error) {
    ps := r.rdb.Subscribe(ctx, r.channel(actorID))
    // Force the subscription to be established before returning so a
    // publish immediately after Subscribe is not lost.
    if _, err := ps.Receive(ctx); err != nil {
        _ = ps.Close()
        return nil, nil, err
    }
    out := make(chan model.BookingChangedEvent, 16)
    go func() {
        defer close(out)
        for msg := range ps.Channel() {
            var ev model.BookingChangedEvent
            if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
                log.Printf("notify: bad refresh payload on %s: %v", msg.Channel, err)
                continue
            }
            select {
            case out <- ev:
            case <-ctx.Done():
                return
            }
        }
    }()
    cancel := func() { _ = ps.Close() }
    return out, cancel, nil
}
