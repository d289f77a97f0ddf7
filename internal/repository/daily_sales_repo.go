package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TicketSync/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Snapshot is the cumulative state of a show at its most recent prior ledger
// row, the baseline of the next differential computation.
type Snapshot struct {
	CumulativeUnits   int
	CumulativeRevenue decimal.Decimal
	SaleDate          time.Time
}

// DailySalesRepository is the persistence surface of the ledger.
type DailySalesRepository interface {
	// GetLastSnapshotBefore returns the cumulative figures of the latest row
	// for the show with fecha_venta strictly before the given date, ties
	// broken by latest fecha_extraccion. A show with no history returns
	// (nil, nil): absence is a normal state, not an error.
	GetLastSnapshotBefore(ctx context.Context, showID uint64, before time.Time) (*Snapshot, error)
	// GetByShowAndDate returns the row for (show, date) or ErrSaleNotFound.
	GetByShowAndDate(ctx context.Context, showID uint64, date time.Time) (*model.DailySale, error)
	Insert(ctx context.Context, row *model.DailySale) error
	// Update overwrites the mutable fields of an existing row by primary key.
	Update(ctx context.Context, row *model.DailySale) error
	ListByShow(ctx context.Context, showID uint64) ([]*model.DailySale, error)
}

type dailySalesRepository struct {
	db *gorm.DB
}

// NewDailySalesRepository creates a DailySalesRepository over the given
// handle. Passing a transaction handle scopes every call to that transaction.
func NewDailySalesRepository(db *gorm.DB) DailySalesRepository {
	return &dailySalesRepository{db: db}
}

func (r *dailySalesRepository) GetLastSnapshotBefore(ctx context.Context, showID uint64, before time.Time) (*Snapshot, error) {
	var row model.DailySale
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND fecha_venta < ?", showID, before).
		Order("fecha_venta DESC, fecha_extraccion DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading last snapshot of show %d: %w", showID, err)
	}
	return &Snapshot{
		CumulativeUnits:   row.VentaTotalAcumulada,
		CumulativeRevenue: row.RecaudacionTotalARS,
		SaleDate:          row.FechaVenta,
	}, nil
}

func (r *dailySalesRepository) GetByShowAndDate(ctx context.Context, showID uint64, date time.Time) (*model.DailySale, error) {
	var row model.DailySale
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND fecha_venta = ?", showID, date).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("reading daily sale of show %d: %w", showID, err)
	}
	return &row, nil
}

func (r *dailySalesRepository) Insert(ctx context.Context, row *model.DailySale) error {
	// Plain insert on purpose: the uk_show_fecha constraint turns a lost race
	// into gorm.ErrDuplicatedKey, which the ledger retries with fresh reads.
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("inserting daily sale for show %d: %w", row.ShowID, err)
	}
	return nil
}

func (r *dailySalesRepository) Update(ctx context.Context, row *model.DailySale) error {
	res := r.db.WithContext(ctx).Model(&model.DailySale{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"venta_diaria":          row.VentaDiaria,
			"monto_diario_ars":      row.MontoDiarioARS,
			"venta_total_acumulada": row.VentaTotalAcumulada,
			"recaudacion_total_ars": row.RecaudacionTotalARS,
			"tickets_disponibles":   row.TicketsDisponibles,
			"porcentaje_ocupacion":  row.PorcentajeOcupacion,
			"fecha_extraccion":      row.FechaExtraccion,
		})
	if res.Error != nil {
		return fmt.Errorf("updating daily sale %d: %w", row.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (r *dailySalesRepository) ListByShow(ctx context.Context, showID uint64) ([]*model.DailySale, error) {
	var rows []*model.DailySale
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("fecha_venta ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing daily sales of show %d: %w", showID, err)
	}
	return rows, nil
}
