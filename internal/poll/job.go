// Package poll implements the per-source polling engine: fetch candidates,
// compare against the stored watermark, announce at most one new item to
// every subscribed chat, then advance the watermark.
//
// The watermark is written only after delivery has been attempted for all
// subscribers. A crash in between means the next tick re-announces the same
// item: the engine prefers a possible duplicate notification over a silent
// loss.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/veeso/spazio-grigio-bot/internal/feed"
	"github.com/veeso/spazio-grigio-bot/internal/notify"
	"github.com/veeso/spazio-grigio-bot/internal/subscriber"
	"github.com/veeso/spazio-grigio-bot/internal/watermark"
)

// JobConfig describes one polling job. The three production jobs
// (newsletter, youtube, instagram) are three instances of this one engine.
type JobConfig struct {
	// Name identifies the job in logs and in the scheduler.
	Name string
	// Key is the watermark key; stable across restarts.
	Key string
	// Source produces candidate items.
	Source feed.Source
	// Policy picks the item to announce, if any.
	Policy Policy
	// Render composes the notification text for the selected item.
	Render func(feed.Item) string
}

// Job is one schedulable polling unit. It holds no state across runs; all
// durable state lives in the watermark store.
type Job struct {
	cfg   JobConfig
	marks watermark.Store
	dir   subscriber.Directory
	bc    *notify.Broadcaster
	log   zerolog.Logger
}

func NewJob(cfg JobConfig, marks watermark.Store, dir subscriber.Directory, bc *notify.Broadcaster, log zerolog.Logger) *Job {
	return &Job{
		cfg:   cfg,
		marks: marks,
		dir:   dir,
		bc:    bc,
		log:   log.With().Str("job", cfg.Name).Logger(),
	}
}

func (j *Job) Name() string { return j.cfg.Name }

// Run executes one poll. Any returned error aborted the run with the
// watermark untouched, except the final watermark write failure, which is
// returned after delivery already happened (the next run will re-announce).
func (j *Job) Run(ctx context.Context) error {
	mark, seen, err := j.marks.Read(ctx, j.cfg.Key)
	if err != nil {
		return fmt.Errorf("read watermark %s: %w", j.cfg.Key, err)
	}

	items, err := j.cfg.Source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	item, ok := j.cfg.Policy.Select(items, mark, seen)
	if !ok {
		j.log.Debug().Time("mark", mark).Int("candidates", len(items)).Msg("nothing new")
		return nil
	}
	j.log.Info().
		Str("title", item.Title).
		Time("published_at", item.PublishedAt).
		Msg("new item found")

	targets, err := j.dir.List(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	results := j.bc.Broadcast(ctx, j.cfg.Render(item), targets)
	if failed := notify.Failed(results); failed > 0 {
		j.log.Warn().Int("failed", failed).Int("total", len(results)).Msg("broadcast finished with failures")
	} else {
		j.log.Info().Int("total", len(results)).Msg("broadcast finished")
	}

	return j.commit(ctx, item, mark)
}

// commit advances the watermark to the announced item. Called only after
// delivery was attempted for every subscriber.
func (j *Job) commit(ctx context.Context, item feed.Item, mark time.Time) error {
	if item.PublishedAt.IsZero() {
		// No monotone value to store: the same item may be announced again
		// on the next tick. Known replay risk; always surfaced.
		j.log.Warn().Str("url", item.URL).Msg("item has no publication date; watermark not advanced")
		return nil
	}
	if err := j.marks.Write(ctx, j.cfg.Key, item.PublishedAt); err != nil {
		// Delivery already happened: the next run re-reads the old mark and
		// re-announces the same item.
		j.log.Warn().Err(err).Time("mark", item.PublishedAt).Msg("watermark write failed; item will be announced again")
		return fmt.Errorf("write watermark %s: %w", j.cfg.Key, err)
	}
	j.log.Debug().Time("from", mark).Time("to", item.PublishedAt).Msg("watermark advanced")
	return nil
}
