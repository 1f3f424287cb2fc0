package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Migration struct {
	ID    string
	UpSQL string
}

// DB - методы пула соединений, нужные для применения миграций.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var allMigrations = []Migration{
	{
		ID: "20260301090000_create_collection_runs_table",
		UpSQL: `
		CREATE TABLE collection_runs(
		id UUID PRIMARY KEY,
		keyword TEXT NOT NULL,
		from_date TEXT NOT NULL,
		collected_at TIMESTAMPTZ NOT NULL,
		total_results INTEGER NOT NULL,
		pages_read INTEGER NOT NULL,
		expected_pages INTEGER NOT NULL,
		state TEXT NOT NULL,
		article_count INTEGER NOT NULL
		);
		CREATE INDEX collection_runs_keyword_idx ON collection_runs (keyword, collected_at DESC);`,
	},
	{
		ID: "20260301090100_create_articles_table",
		UpSQL: `
		CREATE TABLE articles(
		run_id UUID NOT NULL REFERENCES collection_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		headline TEXT NOT NULL,
		category TEXT NOT NULL,
		published_on DATE NOT NULL,
		item_type TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
		);`,
	},
}

// Migrations возвращает миграции в порядке применения.
func Migrations() []Migration {
	out := append([]Migration(nil), allMigrations...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Apply применяет к базе данных все еще не примененные миграции в одной транзакции.
func Apply(ctx context.Context, log *slog.Logger, db DB) error {
	log = log.With(slog.String("component", "migrations"))
	log.Info("Starting database migrations check")
	_, err := db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
	id TEXT PRIMARY KEY
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	rows, err := db.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to scan migration id: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, id := range applied {
		done[id] = true
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	count := 0
	for _, m := range Migrations() {
		if done[m.ID] {
			continue
		}
		log.Info("Applying migration", slog.String("id", m.ID))
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (id) VALUES ($1)", m.ID); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migrations transaction: %w", err)
	}
	if count > 0 {
		log.Info("Database migrations applied successfully", slog.Int("count", count))
	} else {
		log.Info("Database is up to date, no new migrations found")
	}
	return nil
}
