package interfaces

import (
	"context"
	"encoding/json"

	"TicketSync/internal/config"
	"TicketSync/internal/model"

	"github.com/sirupsen/logrus"
)

// VendorAdapter is the contract every ticketing vendor integration implements.
// Fetch pulls the scraper-exported feed verbatim; Parse turns that payload
// into observations. They are split so the sync pipeline can persist the raw
// payload before parsing touches it.
type VendorAdapter interface {
	GetVendor() model.Vendor
	Fetch(ctx context.Context) (json.RawMessage, error)
	Parse(payload json.RawMessage) ([]*model.Observation, error)
}

// Factory builds a vendor adapter from its configuration.
type Factory func(cfg *config.VendorConfig, logger *logrus.Logger) VendorAdapter
