package notify

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/performer-booking/internal/model"
)

func TestMemoryNotifier_FanOutPerActor(t *testing.T) {
    n := NewMemoryNotifier()
    ctx := context.Background()

    a1, cancel1, err := n.Subscribe(ctx, 1)
    require.NoError(t, err)
    defer cancel1()
    a2, cancel2, err := n.Subscribe(ctx, 1)
    require.NoError(t, err)
    defer cancel2()
    other, cancelOther, err := n.Subscribe(ctx, 2)
    require.NoError(t, err)
    defer cancelOther()

    ev := model.BookingChangedEvent{ActorID: 1, BookingID: "b-1", Reason: "status-changed"}
    require.NoError(t, n.Publish(ctx, 1, ev))

    assert.Equal(t, ev, <-a1)
    assert.Equal(t, ev, <-a2)
    select {
    case got := <-other:
        t.Fatalf("subscriber of another actor received %+v", got)
    default:
    }
}

func TestMemoryNotifier_CancelClosesChannel(t *testing.T) {
    n := NewMemoryNotifier()
    ch, cancel, err := n.Subscribe(context.Background(), 7)
    require.NoError(t, err)

    cancel()
    _, open := <-ch
    assert.False(t, open, "cancel must close the subscription channel")

    // Publishing after cancel must not panic or block.
    assert.NoError(t, n.Publish(context.Background(), 7, model.BookingChangedEvent{ActorID: 7}))

    // A second cancel is harmless.
    cancel()
}

func TestMemoryNotifier_DropsWhenSubscriberLagging(t *testing.T) {
    n := NewMemoryNotifier()
    ch, cancel, err := n.Subscribe(context.Background(), 3)
    require.NoError(t, err)
    defer cancel()

    // Overfill the subscription buffer without draining; Publish must
    // never block, surplus events are simply dropped.
    for i := 0; i < 50; i++ {
        require.NoError(t, n.Publish(context.Background(), 3, model.BookingChangedEvent{ActorID: 3}))
    }
    assert.Equal(t, 16, len(ch), "buffer holds the first events, the rest are dropped")
}
