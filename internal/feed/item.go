package feed

import "time"

// Item is one unit of content discovered on a source.
//
// Items are rebuilt from scratch on every fetch and never persisted; only
// the PublishedAt of the item that got announced survives a run (see the
// watermark package).
type Item struct {
	// Origin names the source that produced the item ("youtube",
	// "newsletter", "instagram").
	Origin string
	// Title is optional; feeds and mails usually carry one.
	Title string
	// URL is the canonical link used in the notification body.
	URL string
	// Summary is a short descriptive text. Only some origins fill it.
	Summary string
	// Body is the full text payload. Only the mailbox source fills it.
	Body string
	// PublishedAt is the publication instant in UTC. A zero value means
	// the source carried no usable date; such items cannot be deduplicated
	// by the watermark scheme.
	PublishedAt time.Time
}
