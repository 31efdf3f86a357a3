package subscriber

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// SQLiteDirectory persists subscriptions in a local SQLite file.
type SQLiteDirectory struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (and migrates) the directory database at path.
func OpenSQLite(path string, log zerolog.Logger) (*SQLiteDirectory, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	d := &SQLiteDirectory{db: db, log: log}
	if err := d.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func (d *SQLiteDirectory) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, string(b))
	return err
}

func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}

func (d *SQLiteDirectory) Add(ctx context.Context, chatID int64) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO chats(id, created_at) VALUES(?, ?) ON CONFLICT(id) DO NOTHING`,
		chatID, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (d *SQLiteDirectory) Remove(ctx context.Context, chatID int64) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, chatID)
	return err
}

func (d *SQLiteDirectory) List(ctx context.Context) ([]int64, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, created_at FROM chats ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var (
			id      int64
			created string
		)
		if err := rows.Scan(&id, &created); err != nil {
			return nil, err
		}
		d.log.Debug().Int64("chat", id).Str("since", created).Msg("subscribed chat")
		chats = append(chats, id)
	}
	return chats, rows.Err()
}
