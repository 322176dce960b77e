package lifecycle

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

var ref = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestRemaining_ElapsedPastTarget(t *testing.T) {
    now := ref.AddDate(0, 0, 2).Add(time.Second)
    text, elapsed, d := Remaining(ref, 2, now)
    assert.True(t, elapsed)
    assert.Equal(t, ExhaustedText, text)
    assert.Zero(t, d)
}

func TestRemaining_ElapsedAtExactTarget(t *testing.T) {
    now := ref.AddDate(0, 0, 2)
    _, elapsed, _ := Remaining(ref, 2, now)
    assert.True(t, elapsed, "target instant itself counts as elapsed")
}

func TestRemaining_Rendering(t *testing.T) {
    cases := []struct {
        name string
        now  time.Time
        want string
    }{
        {
            name: "no leading day unit when day component is zero",
            now:  ref.Add(25*time.Hour + 3*time.Minute + 4*time.Second),
            want: "22h 56m 56s",
        },
        {
            name: "all units",
            now:  ref.Add(22*time.Hour + 57*time.Minute + 57*time.Second),
            want: "1d 1h 2m 3s",
        },
        {
            name: "inner zero units are kept",
            now:  ref.AddDate(0, 0, 2).Add(-(24*time.Hour + 5*time.Minute)),
            want: "1d 0h 5m 0s",
        },
        {
            name: "minutes and seconds only",
            now:  ref.AddDate(0, 0, 2).Add(-(5*time.Minute + 12*time.Second)),
            want: "5m 12s",
        },
        {
            name: "seconds only",
            now:  ref.AddDate(0, 0, 2).Add(-42 * time.Second),
            want: "42s",
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            text, elapsed, _ := Remaining(ref, 2, tc.now)
            assert.False(t, elapsed)
            assert.Equal(t, tc.want, text)
        })
    }
}

func TestRemaining_NegativeOffsetCancellationCutoff(t *testing.T) {
    eventStart := ref.AddDate(0, 0, 30)

    // 20 days before the event the cutoff (start - 14d) is still ahead.
    text, elapsed, _ := Remaining(eventStart, -CancelWindowDays, eventStart.AddDate(0, 0, -20))
    assert.False(t, elapsed)
    assert.Equal(t, "6d 0h 0m 0s", text)

    // 10 days before the event the cutoff has passed.
    _, elapsed, _ = Remaining(eventStart, -CancelWindowDays, eventStart.AddDate(0, 0, -10))
    assert.True(t, elapsed)
}

func TestRemaining_Deterministic(t *testing.T) {
    now := ref.Add(3*time.Hour + 7*time.Second)
    t1, e1, d1 := Remaining(ref, 2, now)
    t2, e2, d2 := Remaining(ref, 2, now)
    assert.Equal(t, t1, t2)
    assert.Equal(t, e1, e2)
    assert.Equal(t, d1, d2)
}

func TestRemaining_DurationMatchesText(t *testing.T) {
    // The remaining duration and its textual rendering must agree.
    for _, offset := range []time.Duration{
        time.Second,
        59 * time.Second,
        time.Minute,
        61 * time.Minute,
        25 * time.Hour,
        3*24*time.Hour + 2*time.Hour + time.Minute + 5*time.Second,
    } {
        now := ref.AddDate(0, 0, 2).Add(-offset)
        _, elapsed, d := Remaining(ref, 2, now)
        assert.False(t, elapsed)
        assert.Equal(t, offset, d)
    }
}
