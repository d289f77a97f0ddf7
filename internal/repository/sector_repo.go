package repository

import (
	"context"
	"fmt"

	"TicketSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectorRepository keeps the latest per-sector breakdown of each show.
type SectorRepository interface {
	// UpsertForShow writes the reported sectors, updating rows that already
	// exist for the same (show, nombre).
	UpsertForShow(ctx context.Context, showID uint64, sectors []model.SectorSales) error
	ListByShow(ctx context.Context, showID uint64) ([]*model.Sector, error)
}

type sectorRepository struct {
	db *gorm.DB
}

func NewSectorRepository(db *gorm.DB) SectorRepository {
	return &sectorRepository{db: db}
}

func (r *sectorRepository) UpsertForShow(ctx context.Context, showID uint64, sectors []model.SectorSales) error {
	if len(sectors) == 0 {
		return nil
	}
	rows := make([]*model.Sector, 0, len(sectors))
	for _, s := range sectors {
		rows = append(rows, &model.Sector{
			ShowID:    showID,
			Nombre:    s.Name,
			Capacidad: s.Capacity,
			Vendidos:  s.Sold,
		})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "show_id"}, {Name: "nombre"}},
			DoUpdates: clause.AssignmentColumns([]string{"capacidad", "vendidos", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upserting sectors of show %d: %w", showID, err)
	}
	return nil
}

func (r *sectorRepository) ListByShow(ctx context.Context, showID uint64) ([]*model.Sector, error) {
	var rows []*model.Sector
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("nombre ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing sectors of show %d: %w", showID, err)
	}
	return rows, nil
}
