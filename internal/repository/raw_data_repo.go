package repository

import (
	"context"
	"fmt"

	"TicketSync/internal/model"

	"gorm.io/gorm"
)

// RawDataRepository archives vendor feed payloads verbatim.
type RawDataRepository interface {
	Save(ctx context.Context, raw *model.RawData) error
	ListByBatch(ctx context.Context, batchID string) ([]*model.RawData, error)
}

type rawDataRepository struct {
	db *gorm.DB
}

func NewRawDataRepository(db *gorm.DB) RawDataRepository {
	return &rawDataRepository{db: db}
}

func (r *rawDataRepository) Save(ctx context.Context, raw *model.RawData) error {
	if err := r.db.WithContext(ctx).Create(raw).Error; err != nil {
		return fmt.Errorf("saving raw payload for %s: %w", raw.Ticketera, err)
	}
	return nil
}

func (r *rawDataRepository) ListByBatch(ctx context.Context, batchID string) ([]*model.RawData, error) {
	var rows []*model.RawData
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("fetched_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing raw payloads of batch %s: %w", batchID, err)
	}
	return rows, nil
}
