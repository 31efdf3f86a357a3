package feed

import (
	"context"
	"errors"
)

// ErrUnavailable marks a fetch that failed because the remote origin could
// not be reached or its payload could not be parsed. Callers wrap it with
// context: fmt.Errorf("%w: ...", feed.ErrUnavailable).
var ErrUnavailable = errors.New("source unavailable")

// Source fetches the latest candidate items from one external origin.
//
// Implementations return items ordered by PublishedAt ascending when the
// origin provides dates; the order is unspecified otherwise. A failed fetch
// returns an error wrapping ErrUnavailable and no items.
type Source interface {
	Fetch(ctx context.Context) ([]Item, error)
}
