package storage

import (
	"context"
	"coverage/internal/domain"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var articleColumns = []string{"run_id", "position", "headline", "category", "published_on", "item_type"}

type PostgresCollectionDB struct {
	db  DB
	log *slog.Logger
}

func NewPostgresCollectionDB(db DB, log *slog.Logger) *PostgresCollectionDB {
	log.Info("Initializing Postgres snapshot storage")
	return &PostgresCollectionDB{
		db:  db,
		log: log,
	}
}

func (s *PostgresCollectionDB) Close() {
	s.log.Info("Closing database connection pool")
	s.db.Close()
}

// SaveCollection записывает коллекцию как новый снимок: строку collection_runs и все
// строки таблицы в исходном порядке. Запись выполняется в одной транзакции.
func (s *PostgresCollectionDB) SaveCollection(ctx context.Context, c *domain.Collection) (id uuid.UUID, err error) {
	const op = "storage.postgres.SaveCollection"
	log := s.log.With(slog.String("op", op), slog.String("keyword", c.Keyword))

	id = uuid.New()
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()

	_, err = tx.Exec(ctx, `
	INSERT INTO collection_runs
	(id, keyword, from_date, collected_at, total_results, pages_read, expected_pages, state, article_count)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		id,
		c.Keyword,
		c.FromDate,
		c.CollectedAt,
		c.TotalResults,
		c.PagesRead,
		c.ExpectedPages,
		c.State.String(),
		c.Table.Len(),
	)
	if err != nil {
		log.Error("Failed to insert collection run", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("%s: failed to insert run: %w", op, err)
	}

	if n := c.Table.Len(); n > 0 {
		rows := make([][]any, 0, n)
		for i, r := range c.Table.Records {
			rows = append(rows, []any{id, i, r.Headline, r.Category, r.Date, r.ItemType})
		}
		var copied int64
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"articles"}, articleColumns, pgx.CopyFromRows(rows))
		if err != nil {
			log.Error("Failed to copy articles", slog.Any("error", err))
			return uuid.Nil, fmt.Errorf("%s: failed to copy articles: %w", op, err)
		}
		if copied != int64(n) {
			err = fmt.Errorf("%s: copied %d of %d articles", op, copied, n)
			return uuid.Nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Error("Failed to commit transaction", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	log.Info("Snapshot stored", slog.String("run_id", id.String()), slog.Int("count", c.Table.Len()))
	return id, nil
}

// LatestCollection читает последний по времени сбора снимок для ключевого слова.
func (s *PostgresCollectionDB) LatestCollection(ctx context.Context, keyword string) (*domain.Collection, error) {
	const op = "storage.postgres.LatestCollection"
	log := s.log.With(slog.String("op", op), slog.String("keyword", keyword))

	var (
		runID string
		state string
		c     = &domain.Collection{}
	)
	err := s.db.QueryRow(ctx, `
	SELECT id, keyword, from_date, collected_at, total_results, pages_read, expected_pages, state
	FROM collection_runs
	WHERE keyword = $1
	ORDER BY collected_at DESC
	LIMIT 1;
	`, keyword).Scan(
		&runID,
		&c.Keyword,
		&c.FromDate,
		&c.CollectedAt,
		&c.TotalResults,
		&c.PagesRead,
		&c.ExpectedPages,
		&state,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %q: %w", op, keyword, ErrNotFound)
	}
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to query run: %w", op, err)
	}
	c.State = domain.ParseExtractState(state)

	rows, err := s.db.Query(ctx, `
	SELECT headline, category, published_on, item_type
	FROM articles
	WHERE run_id = $1
	ORDER BY position;
	`, runID)
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to query articles: %w", op, err)
	}
	defer rows.Close()
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Record, error) {
		var r domain.Record
		var day time.Time
		err := row.Scan(&r.Headline, &r.Category, &day, &r.ItemType)
		r.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		return r, err
	})
	if err != nil {
		log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	c.Table = &domain.Table{Records: records}
	log.Info("Snapshot loaded", slog.String("run_id", runID), slog.Int("count", len(records)))
	return c, nil
}
