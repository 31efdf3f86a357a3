package poll

import (
	"sort"
	"time"

	"github.com/veeso/spazio-grigio-bot/internal/feed"
)

// Policy decides which fetched item, if any, is new relative to the stored
// watermark. seen is false when the source was never polled successfully.
type Policy interface {
	Select(items []feed.Item, mark time.Time, seen bool) (feed.Item, bool)
}

// SingleLatest notifies only when the most recent item changed. Used for
// sources where older items become irrelevant the moment a newer one
// exists (the newsletter: only the latest mail matters).
type SingleLatest struct{}

func (SingleLatest) Select(items []feed.Item, mark time.Time, seen bool) (feed.Item, bool) {
	if len(items) == 0 {
		return feed.Item{}, false
	}
	latest := items[0]
	for _, it := range items[1:] {
		if !it.PublishedAt.Before(latest.PublishedAt) {
			latest = it
		}
	}
	if qualifies(latest, mark, seen) {
		return latest, true
	}
	return feed.Item{}, false
}

// OldestUnseen drains a backlog one item per run, oldest first. Used for
// sources that may publish faster than we poll: each tick announces the
// single oldest item not yet seen, so catch-up is gradual instead of a
// burst.
type OldestUnseen struct{}

func (OldestUnseen) Select(items []feed.Item, mark time.Time, seen bool) (feed.Item, bool) {
	sorted := make([]feed.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})
	for _, it := range sorted {
		if qualifies(it, mark, seen) {
			return it, true
		}
	}
	return feed.Item{}, false
}

// qualifies reports whether an item is strictly newer than the watermark.
// Undated items cannot be compared and always count as new; absence of a
// watermark means no lower bound.
func qualifies(it feed.Item, mark time.Time, seen bool) bool {
	if it.PublishedAt.IsZero() {
		return true
	}
	if !seen {
		return true
	}
	return it.PublishedAt.After(mark)
}
