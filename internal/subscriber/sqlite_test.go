package subscriber

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDirectory(t *testing.T) *SQLiteDirectory {
	t.Helper()
	d, err := OpenSQLite(filepath.Join(t.TempDir(), "bot.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestAddAndList(t *testing.T) {
	d := openTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Add(ctx, 10))
	require.NoError(t, d.Add(ctx, 20))

	chats, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, chats)
}

func TestAddIsIdempotent(t *testing.T) {
	d := openTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Add(ctx, 10))
	require.NoError(t, d.Add(ctx, 10))

	chats, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, chats, "subscribing twice must not create a duplicate")
}

func TestRemoveIsIdempotent(t *testing.T) {
	d := openTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Add(ctx, 10))
	require.NoError(t, d.Remove(ctx, 99), "removing a non-member is not an error")
	require.NoError(t, d.Remove(ctx, 10))
	require.NoError(t, d.Remove(ctx, 10))

	chats, err := d.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestListSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.db")
	ctx := context.Background()

	d, err := OpenSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, d.Add(ctx, 42))
	require.NoError(t, d.Close())

	d, err = OpenSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	defer d.Close()

	chats, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, chats)
}
