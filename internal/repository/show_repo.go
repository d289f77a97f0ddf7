package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TicketSync/internal/model"

	"gorm.io/gorm"
)

// ShowFilter narrows the show listing.
type ShowFilter struct {
	Vendor string // ticketera tag, empty for all
	Artist string // matches the normalized artist key exactly
}

// ShowRepository is the persistence surface of the show registry.
type ShowRepository interface {
	// FindByIdentity looks a show up by its identity key
	// (normalized artist, venue, show timestamp, vendor).
	FindByIdentity(ctx context.Context, artistaNorm, venue string, fechaShow time.Time, vendor model.Vendor) (*model.Show, error)
	Create(ctx context.Context, show *model.Show) error
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	// UpdateCapacity overwrites capacidad_total in place.
	UpdateCapacity(ctx context.Context, id uint64, capacity int) error
	List(ctx context.Context, filter ShowFilter, page, pageSize int) ([]*model.Show, int64, error)
}

type showRepository struct {
	db *gorm.DB
}

// NewShowRepository creates a ShowRepository over the given handle. Passing a
// transaction handle scopes every call to that transaction.
func NewShowRepository(db *gorm.DB) ShowRepository {
	return &showRepository{db: db}
}

func (r *showRepository) FindByIdentity(ctx context.Context, artistaNorm, venue string, fechaShow time.Time, vendor model.Vendor) (*model.Show, error) {
	var show model.Show
	err := r.db.WithContext(ctx).
		Where("artista_norm = ? AND venue = ? AND fecha_show = ? AND ticketera = ?",
			artistaNorm, venue, fechaShow, vendor).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("finding show by identity: %w", err)
	}
	return &show, nil
}

func (r *showRepository) Create(ctx context.Context, show *model.Show) error {
	if err := r.db.WithContext(ctx).Create(show).Error; err != nil {
		return fmt.Errorf("creating show %q: %w", show.Artista, err)
	}
	return nil
}

func (r *showRepository) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	var show model.Show
	err := r.db.WithContext(ctx).First(&show, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("loading show %d: %w", id, err)
	}
	return &show, nil
}

func (r *showRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Show{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking show %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *showRepository) UpdateCapacity(ctx context.Context, id uint64, capacity int) error {
	res := r.db.WithContext(ctx).Model(&model.Show{}).
		Where("id = ?", id).
		Update("capacidad_total", capacity)
	if res.Error != nil {
		return fmt.Errorf("updating capacity of show %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrShowNotFound
	}
	return nil
}

func (r *showRepository) List(ctx context.Context, filter ShowFilter, page, pageSize int) ([]*model.Show, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.Show{})
	if filter.Vendor != "" {
		db = db.Where("ticketera = ?", filter.Vendor)
	}
	if filter.Artist != "" {
		db = db.Where("artista_norm = ?", filter.Artist)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shows []*model.Show
	if err := db.
		Order("fecha_show ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&shows).Error; err != nil {
		return nil, 0, err
	}

	return shows, total, nil
}
