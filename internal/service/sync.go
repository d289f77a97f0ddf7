package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TicketSync/internal/adapter"
	"TicketSync/internal/config"
	"TicketSync/internal/interfaces"
	"TicketSync/internal/model"
	"TicketSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrUnknownVendor rejects sync requests for vendors without an adapter.
var ErrUnknownVendor = errors.New("unknown vendor")

// ErrVendorDisabled rejects sync requests for vendors excluded by config.
var ErrVendorDisabled = errors.New("vendor disabled")

// SyncSummary reports one vendor extraction cycle.
type SyncSummary struct {
	Vendor       string `json:"vendor"`
	BatchID      string `json:"batch_id"`
	Observations int    `json:"observations"`
	Inserted     int    `json:"inserted"`
	Updated      int    `json:"updated"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
}

// SyncService runs the extraction cycle for each vendor: fetch feed, archive
// the raw payload, resolve shows, record ledger observations.
type SyncService struct {
	db         *gorm.DB
	logger     *logrus.Logger
	cfg        *config.Config
	registry   interfaces.ShowRegistry
	ledger     interfaces.SalesLedger
	rawRepo    repository.RawDataRepository
	sectorRepo repository.SectorRepository
	adapters   map[model.Vendor]interfaces.VendorAdapter
}

// NewSyncService builds adapters for every configured vendor from the
// adapter factory registry; vendors without a registered factory are logged
// and left out.
func NewSyncService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncService {
	adapters := make(map[model.Vendor]interfaces.VendorAdapter)
	for name := range cfg.Vendors {
		vendor := model.Vendor(name)
		factory, ok := adapter.GetFactory(vendor)
		if !ok {
			logger.WithField("vendor", name).Warn("no adapter factory registered for configured vendor")
			continue
		}
		vcfg := cfg.Vendors[name]
		adapters[vendor] = factory(&vcfg, logger)
	}

	return &SyncService{
		db:         db,
		logger:     logger,
		cfg:        cfg,
		registry:   NewShowRegistryService(db, logger),
		ledger:     NewLedgerService(db, logger),
		rawRepo:    repository.NewRawDataRepository(db),
		sectorRepo: repository.NewSectorRepository(db),
		adapters:   adapters,
	}
}

// SyncVendor runs one extraction cycle for the named vendor. A failing show
// never aborts the rest of the batch; failures are counted and logged.
func (s *SyncService) SyncVendor(ctx context.Context, name string) (*SyncSummary, error) {
	vendor := model.Vendor(name)
	if !vendor.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, name)
	}
	if !s.cfg.VendorEnabled(name) {
		return nil, fmt.Errorf("%w: %q", ErrVendorDisabled, name)
	}
	ad, ok := s.adapters[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no configured adapter", ErrUnknownVendor, name)
	}

	batchID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"vendor": name, "batch_id": batchID})

	payload, err := ad.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", name, err)
	}

	// Archive the payload before parsing so a conversion bug can be replayed.
	if err := s.rawRepo.Save(ctx, &model.RawData{
		BatchID:   batchID,
		Ticketera: vendor,
		Payload:   datatypes.JSON(payload),
		FetchedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	observations, err := ad.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", name, err)
	}
	if len(observations) == 0 {
		log.Warn("vendor feed contained no observations")
	}

	summary := &SyncSummary{Vendor: name, BatchID: batchID, Observations: len(observations)}
	for _, obs := range observations {
		_, result, err := s.Process(ctx, obs)
		if err != nil {
			summary.Failed++
			log.WithError(err).WithFields(logrus.Fields{
				"artista": obs.Artist,
				"venue":   obs.Venue,
			}).Warn("observation failed, continuing batch")
			continue
		}
		switch result {
		case model.UpsertInserted:
			summary.Inserted++
		case model.UpsertUpdated:
			summary.Updated++
		case model.UpsertSkipped:
			summary.Skipped++
		}
	}

	log.WithFields(logrus.Fields{
		"observations": summary.Observations,
		"inserted":     summary.Inserted,
		"updated":      summary.Updated,
		"skipped":      summary.Skipped,
		"failed":       summary.Failed,
	}).Info("vendor sync finished")
	return summary, nil
}

// SyncAll runs every enabled vendor that has an adapter. A vendor-level
// failure is logged and does not stop the others.
func (s *SyncService) SyncAll(ctx context.Context) []*SyncSummary {
	var summaries []*SyncSummary
	for _, vendor := range model.AllVendors {
		if _, ok := s.adapters[vendor]; !ok {
			continue
		}
		if !s.cfg.VendorEnabled(string(vendor)) {
			continue
		}
		summary, err := s.SyncVendor(ctx, string(vendor))
		if err != nil {
			s.logger.WithError(err).WithField("vendor", vendor).Error("vendor sync failed")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Process runs one observation through the full pipeline: registry
// resolution, ledger recording, sector bookkeeping. Also the entry point for
// observations pushed directly by out-of-process scrapers.
func (s *SyncService) Process(ctx context.Context, obs *model.Observation) (*model.Show, model.UpsertResult, error) {
	show, err := s.registry.ResolveOrCreate(ctx, obs)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	result, err := s.ledger.RecordObservation(ctx, model.ObservationInput{
		ShowID:            show.ID,
		SaleDate:          saleDateFor(obs, now),
		CumulativeUnits:   obs.CumulativeUnits,
		CumulativeRevenue: obs.CumulativeRevenue,
		Capacity:          show.CapacidadTotal,
		Vendor:            obs.Vendor,
		ExtractedAt:       now,
	})
	if err != nil {
		return nil, "", err
	}

	if len(obs.Sectors) > 0 {
		if err := s.sectorRepo.UpsertForShow(ctx, show.ID, obs.Sectors); err != nil {
			return nil, "", err
		}
	}
	return show, result, nil
}

// saleDateFor decides which ledger row an observation lands on: the
// vendor-reported refresh timestamp when the feed has one, otherwise the
// extraction wall-clock.
func saleDateFor(obs *model.Observation, now time.Time) time.Time {
	if obs.ReportedAt != nil {
		return model.DateOnly(*obs.ReportedAt)
	}
	return model.DateOnly(now)
}
