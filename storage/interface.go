package storage

import (
	"context"
	"coverage/internal/domain"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound возвращается, если снимков по ключевому слову нет.
var ErrNotFound = errors.New("collection snapshot not found")

// Storage определяет общий интерфейс хранилища снимков коллекций.
type Storage interface {
	SaveCollection(ctx context.Context, c *domain.Collection) (uuid.UUID, error)
	LatestCollection(ctx context.Context, keyword string) (*domain.Collection, error)
	Close()
}

// DB - подмножество методов pgxpool.Pool, которое использует хранилище.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}
