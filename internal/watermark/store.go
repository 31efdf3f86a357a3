// Package watermark persists the "last processed" instant of every polled
// source. Keys are stable across restarts; values are canonical RFC3339Nano
// UTC strings so that comparisons never drift with timezones and never lose
// sub-second precision.
package watermark

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a read or write that failed because the backing
// store could not be reached.
var ErrUnavailable = errors.New("watermark store unavailable")

// Store reads and writes last-seen markers by source key.
//
// Read reports ok=false when the key was never written. Write has
// last-writer-wins semantics; monotonicity is owned by the single poll job
// writing each key, not by the store.
type Store interface {
	Read(ctx context.Context, key string) (t time.Time, ok bool, err error)
	Write(ctx context.Context, key string, t time.Time) error
}
