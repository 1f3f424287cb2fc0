package usecase

import (
	"context"
	"coverage/internal/domain"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SnapshotUseCase сохраняет собранные коллекции целиком и читает последний снимок.
// Каждый сбор дает новый снимок; ранее сохраненные данные не изменяются.
type SnapshotUseCase struct {
	storage CollectionStorage
	log     *slog.Logger
}

func NewSnapshotUseCase(storage CollectionStorage, log *slog.Logger) *SnapshotUseCase {
	return &SnapshotUseCase{storage: storage, log: log}
}

// Save записывает коллекцию как новый снимок и возвращает его идентификатор.
func (uc *SnapshotUseCase) Save(ctx context.Context, c *domain.Collection) (uuid.UUID, error) {
	log := uc.log.With(slog.String("component", "snapshot"), slog.String("keyword", c.Keyword))
	id, err := uc.storage.SaveCollection(ctx, c)
	if err != nil {
		log.Error("Snapshot save failed", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("save snapshot for %q: %w", c.Keyword, err)
	}
	log.Info("Snapshot saved",
		slog.String("run_id", id.String()),
		slog.Int("count", c.Table.Len()),
	)
	return id, nil
}

// Latest читает последний снимок по ключевому слову.
func (uc *SnapshotUseCase) Latest(ctx context.Context, keyword string) (*domain.Collection, error) {
	c, err := uc.storage.LatestCollection(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %q: %w", keyword, err)
	}
	uc.log.Debug("Snapshot loaded",
		slog.String("component", "snapshot"),
		slog.String("keyword", keyword),
		slog.Int("count", c.Table.Len()),
	)
	return c, nil
}
