// Package subscriber stores the set of chats that receive scheduled
// notifications.
package subscriber

import "context"

// Directory is the single source of truth for notification targets.
// Add and Remove are idempotent: re-adding a member or removing a
// non-member is a no-op, never an error.
type Directory interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]int64, error)
}
