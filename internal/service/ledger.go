package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"TicketSync/internal/model"
	"TicketSync/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidObservation rejects observations with negative or missing raw
// figures before any computation. Raw cumulative inputs are never clamped:
// accepting a corrupt cumulative figure would poison every later delta.
var ErrInvalidObservation = errors.New("invalid observation")

// DailyDelta is the incremental units/revenue attributed to one calendar day.
type DailyDelta struct {
	Units   int
	Revenue decimal.Decimal
}

// Inventory is the derived availability state of a show.
type Inventory struct {
	Available    int
	OccupancyPct float64
}

// ComputeDailySales diffs the freshly observed cumulative totals against the
// previous snapshot. With no snapshot the full cumulative total becomes the
// first day's delta: a show discovered mid-lifecycle attributes all prior
// sales to the discovery day. Negative deltas (vendor corrections, refunds,
// stale re-extractions) clamp to zero; under-counting beats phantom negative
// sales.
func ComputeDailySales(cumUnits int, cumRevenue decimal.Decimal, prev *repository.Snapshot) DailyDelta {
	if prev == nil {
		return DailyDelta{Units: cumUnits, Revenue: cumRevenue}
	}
	delta := DailyDelta{
		Units:   cumUnits - prev.CumulativeUnits,
		Revenue: cumRevenue.Sub(prev.CumulativeRevenue),
	}
	if delta.Units < 0 {
		delta.Units = 0
	}
	if delta.Revenue.IsNegative() {
		delta.Revenue = decimal.Zero
	}
	return delta
}

// ComputeInventory derives tickets-available and occupancy percentage.
// Availability never goes negative even when oversold; an unknown (zero)
// capacity yields zero occupancy.
func ComputeInventory(cumUnits, capacity int) Inventory {
	available := capacity - cumUnits
	if available < 0 {
		available = 0
	}
	var pct float64
	if capacity > 0 {
		pct = round2(float64(cumUnits) / float64(capacity) * 100)
	}
	return Inventory{Available: available, OccupancyPct: pct}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LedgerService implements interfaces.SalesLedger: the read-compute-write of
// one (show, sale_date) ledger row inside a single transaction.
type LedgerService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewLedgerService(db *gorm.DB, logger *logrus.Logger) *LedgerService {
	return &LedgerService{db: db, logger: logger}
}

// RecordObservation validates the raw figures, reads the prior snapshot,
// computes the daily delta and inventory, and upserts the (show, sale_date)
// row. The whole sequence runs in one transaction; a duplicate-key failure
// from a concurrent writer is retried once with fresh reads.
func (s *LedgerService) RecordObservation(ctx context.Context, in model.ObservationInput) (model.UpsertResult, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	saleDate := model.DateOnly(in.SaleDate)
	extractedAt := in.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}

	var result model.UpsertResult
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		result, err = s.recordOnce(ctx, in, saleDate, extractedAt)
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			// Lost a race against a concurrent extraction; re-read and retry.
			s.logger.WithFields(logrus.Fields{
				"show_id":   in.ShowID,
				"fecha":     saleDate.Format("2006-01-02"),
				"ticketera": in.Vendor,
			}).Warn("concurrent ledger write detected, retrying with fresh snapshot")
			continue
		}
		break
	}
	return result, err
}

func (s *LedgerService) recordOnce(ctx context.Context, in model.ObservationInput, saleDate, extractedAt time.Time) (model.UpsertResult, error) {
	var result model.UpsertResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		showRepo := repository.NewShowRepository(tx)
		salesRepo := repository.NewDailySalesRepository(tx)

		ok, err := showRepo.Exists(ctx, in.ShowID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: id %d", repository.ErrShowNotFound, in.ShowID)
		}

		prev, err := salesRepo.GetLastSnapshotBefore(ctx, in.ShowID, saleDate)
		if err != nil {
			return err
		}
		if prev != nil && in.CumulativeUnits < prev.CumulativeUnits {
			s.logger.WithFields(logrus.Fields{
				"show_id":   in.ShowID,
				"prev_cum":  prev.CumulativeUnits,
				"new_cum":   in.CumulativeUnits,
				"ticketera": in.Vendor,
			}).Warn("cumulative figure went backwards, daily delta clamped to zero")
		}

		delta := ComputeDailySales(in.CumulativeUnits, in.CumulativeRevenue, prev)
		inv := ComputeInventory(in.CumulativeUnits, in.Capacity)

		existing, err := salesRepo.GetByShowAndDate(ctx, in.ShowID, saleDate)
		if err != nil && !errors.Is(err, repository.ErrSaleNotFound) {
			return err
		}

		if existing == nil {
			row := &model.DailySale{
				ShowID:              in.ShowID,
				FechaVenta:          saleDate,
				FechaExtraccion:     extractedAt,
				VentaDiaria:         delta.Units,
				MontoDiarioARS:      delta.Revenue,
				VentaTotalAcumulada: in.CumulativeUnits,
				RecaudacionTotalARS: in.CumulativeRevenue,
				TicketsDisponibles:  inv.Available,
				PorcentajeOcupacion: inv.OccupancyPct,
				Ticketera:           in.Vendor,
			}
			if err := salesRepo.Insert(ctx, row); err != nil {
				return err
			}
			result = model.UpsertInserted
			return nil
		}

		if existing.VentaDiaria == delta.Units {
			// Identical re-extraction: zero writes.
			result = model.UpsertSkipped
			return nil
		}

		existing.VentaDiaria = delta.Units
		existing.MontoDiarioARS = delta.Revenue
		existing.VentaTotalAcumulada = in.CumulativeUnits
		existing.RecaudacionTotalARS = in.CumulativeRevenue
		existing.TicketsDisponibles = inv.Available
		existing.PorcentajeOcupacion = inv.OccupancyPct
		existing.FechaExtraccion = extractedAt
		if err := salesRepo.Update(ctx, existing); err != nil {
			return err
		}
		result = model.UpsertUpdated
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func validateInput(in model.ObservationInput) error {
	switch {
	case in.ShowID == 0:
		return fmt.Errorf("%w: show id is zero", ErrInvalidObservation)
	case in.SaleDate.IsZero():
		return fmt.Errorf("%w: sale date is zero", ErrInvalidObservation)
	case in.CumulativeUnits < 0:
		return fmt.Errorf("%w: negative cumulative units %d", ErrInvalidObservation, in.CumulativeUnits)
	case in.CumulativeRevenue.IsNegative():
		return fmt.Errorf("%w: negative cumulative revenue %s", ErrInvalidObservation, in.CumulativeRevenue)
	case in.Capacity < 0:
		return fmt.Errorf("%w: negative capacity %d", ErrInvalidObservation, in.Capacity)
	case !in.Vendor.Valid():
		return fmt.Errorf("%w: unknown vendor %q", ErrInvalidObservation, in.Vendor)
	}
	return nil
}
