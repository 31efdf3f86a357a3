// Package notify fans one message out to many chats, isolating every
// delivery from the others.
package notify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Transport is the single external send primitive. The telegram adapter
// implements it; tests swap in a fake.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Result records the outcome of one delivery attempt.
type Result struct {
	Target int64
	Err    error
}

// Broadcaster sends a text to every target sequentially, throttled by a
// shared limiter. Delivery is best-effort: a failed target is logged and
// reported in its Result, never raised to the caller, and never blocks the
// remaining targets.
type Broadcaster struct {
	tr      Transport
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New builds a broadcaster capped at ratePerSec sends per second
// (Telegram throttles bots around 30 messages/s globally). ratePerSec <= 0
// falls back to 10.
func New(tr Transport, ratePerSec int, log zerolog.Logger) *Broadcaster {
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	return &Broadcaster{
		tr:      tr,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		log:     log,
	}
}

// Broadcast delivers text to every target. It returns one Result per
// target, in input order. Context cancellation stops the remaining sends
// and marks them failed.
func (b *Broadcaster) Broadcast(ctx context.Context, text string, targets []int64) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if err := b.limiter.Wait(ctx); err != nil {
			results = append(results, Result{Target: target, Err: err})
			continue
		}
		err := b.tr.Send(ctx, target, text)
		if err != nil {
			b.log.Error().Err(err).Int64("chat", target).Msg("delivery failed")
		} else {
			b.log.Debug().Int64("chat", target).Msg("delivered")
		}
		results = append(results, Result{Target: target, Err: err})
	}
	return results
}

// Failed counts the unsuccessful deliveries in a result set.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
