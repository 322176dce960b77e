package lifecycle

import (
    "fmt"
    "strings"
    "time"
)

// ExhaustedText is returned by Remaining once the target instant has
// passed.  Clients display it verbatim.
const ExhaustedText = "expired"

// Remaining computes the time left until reference plus offsetDays
// calendar days, observed at instant now.  offsetDays may be negative;
// the cancellation cutoff is expressed as -CancelWindowDays against the
// event start.
//
// When the target instant is still ahead it returns a text of the form
// "1d 2h 3m 4s" together with elapsed=false and the exact remaining
// duration.  Units above the largest non-zero unit are omitted ("5m 12s",
// never "0d 0h 5m 12s"); zero units below it are kept so columns of
// countdowns stay aligned.  When the target is at or before now it
// returns ExhaustedText, elapsed=true and a zero duration.
//
// The function is deterministic in its three inputs and has no side
// effects.
func Remaining(reference time.Time, offsetDays int, now time.Time) (string, bool, time.Duration) {
    target := reference.AddDate(0, 0, offsetDays)
    if !target.After(now) {
        return ExhaustedText, true, 0
    }
    d := target.Sub(now)

    days := int(d / (24 * time.Hour))
    hours := int(d % (24 * time.Hour) / time.Hour)
    minutes := int(d % time.Hour / time.Minute)
    seconds := int(d % time.Minute / time.Second)

    parts := make([]string, 0, 4)
    if days > 0 {
        parts = append(parts, fmt.Sprintf("%dd", days))
    }
    if hours > 0 || len(parts) > 0 {
        parts = append(parts, fmt.Sprintf("%dh", hours))
    }
    if minutes > 0 || len(parts) > 0 {
        parts = append(parts, fmt.Sprintf("%dm", minutes))
    }
    parts = append(parts, fmt.Sprintf("%ds", seconds))

    return strings.Join(parts, " "), false, d
}
