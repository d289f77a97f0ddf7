package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"TicketSync/internal/model"
	"TicketSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NormalizeArtist builds the matching key for show identity: trimmed,
// uppercased, punctuation stripped, whitespace collapsed. Applied once at
// this boundary so no vendor re-derives its own matching rules.
func NormalizeArtist(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ShowRegistryService implements interfaces.ShowRegistry over the shows table.
type ShowRegistryService struct {
	db       *gorm.DB
	showRepo repository.ShowRepository
	logger   *logrus.Logger
}

func NewShowRegistryService(db *gorm.DB, logger *logrus.Logger) *ShowRegistryService {
	return &ShowRegistryService{
		db:       db,
		showRepo: repository.NewShowRepository(db),
		logger:   logger,
	}
}

// ResolveOrCreate finds the show an observation belongs to, creating it on
// first sight. When an already-known show reports a non-zero capacity that
// differs from the stored one, the stored capacity is refreshed in place.
func (s *ShowRegistryService) ResolveOrCreate(ctx context.Context, obs *model.Observation) (*model.Show, error) {
	norm := NormalizeArtist(obs.Artist)
	venue := strings.TrimSpace(obs.Venue)
	switch {
	case norm == "":
		return nil, fmt.Errorf("%w: empty artist", ErrInvalidObservation)
	case venue == "":
		return nil, fmt.Errorf("%w: empty venue", ErrInvalidObservation)
	case obs.ShowDate.IsZero():
		return nil, fmt.Errorf("%w: zero show date", ErrInvalidObservation)
	case !obs.Vendor.Valid():
		return nil, fmt.Errorf("%w: unknown vendor %q", ErrInvalidObservation, obs.Vendor)
	}

	show, err := s.showRepo.FindByIdentity(ctx, norm, venue, obs.ShowDate, obs.Vendor)
	if err == nil {
		if obs.Capacity > 0 && obs.Capacity != show.CapacidadTotal {
			if err := s.UpdateCapacity(ctx, show.ID, obs.Capacity); err != nil {
				return nil, err
			}
			s.logger.WithFields(logrus.Fields{
				"show_id":      show.ID,
				"old_capacity": show.CapacidadTotal,
				"new_capacity": obs.Capacity,
			}).Info("show capacity refreshed")
			show.CapacidadTotal = obs.Capacity
		}
		return show, nil
	}
	if !errors.Is(err, repository.ErrShowNotFound) {
		return nil, err
	}

	capacity := obs.Capacity
	if capacity < 0 {
		capacity = 0
	}
	show = &model.Show{
		Artista:        strings.TrimSpace(obs.Artist),
		ArtistaNorm:    norm,
		Venue:          venue,
		FechaShow:      obs.ShowDate,
		CapacidadTotal: capacity,
		Ticketera:      obs.Vendor,
	}
	if err := s.showRepo.Create(ctx, show); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another extraction created it between our find and create.
			return s.showRepo.FindByIdentity(ctx, norm, venue, obs.ShowDate, obs.Vendor)
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"show_id":   show.ID,
		"artista":   show.Artista,
		"venue":     show.Venue,
		"ticketera": show.Ticketera,
	}).Info("show registered")
	return show, nil
}

// UpdateCapacity overwrites the stored total capacity of a show.
func (s *ShowRegistryService) UpdateCapacity(ctx context.Context, showID uint64, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidObservation, capacity)
	}
	return s.showRepo.UpdateCapacity(ctx, showID, capacity)
}
