// Package plateanet ingests the Plateanet backoffice export: a bare array of
// event rows with numeric amounts and no refresh timestamp, so the sale date
// falls back to the extraction wall-clock.
package plateanet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TicketSync/internal/adapter"
	"TicketSync/internal/config"
	"TicketSync/internal/interfaces"
	"TicketSync/internal/model"
	"TicketSync/internal/utils/httpclient"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func init() {
	adapter.Register(model.VendorPlateanet, NewAdapter)
}

type Adapter struct {
	cfg        *config.VendorConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAdapter(cfg *config.VendorConfig, logger *logrus.Logger) interfaces.VendorAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetVendor() model.Vendor {
	return model.VendorPlateanet
}

func (a *Adapter) Fetch(ctx context.Context) (json.RawMessage, error) {
	return adapter.FetchJSON(ctx, a.httpClient, a.cfg.ExportURL, a.cfg.AuthToken, a.cfg.RetryCount, a.logger)
}

type eventRow struct {
	Evento           string  `json:"evento"`
	Teatro           string  `json:"teatro"`
	Fecha            string  `json:"fecha"`
	Capacidad        int     `json:"capacidad"`
	EntradasVendidas int     `json:"entradas_vendidas"`
	Recaudado        float64 `json:"recaudado"`
}

func (a *Adapter) Parse(payload json.RawMessage) ([]*model.Observation, error) {
	var rows []eventRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decoding plateanet feed: %w", err)
	}

	var observations []*model.Observation
	for _, row := range rows {
		fecha, err := time.Parse(time.RFC3339, row.Fecha)
		if err != nil {
			a.logger.WithError(err).WithField("evento", row.Evento).Warn("skipping event with unparseable date")
			continue
		}

		observations = append(observations, &model.Observation{
			Vendor:            model.VendorPlateanet,
			Artist:            row.Evento,
			Venue:             row.Teatro,
			ShowDate:          fecha,
			Capacity:          row.Capacidad,
			CumulativeUnits:   row.EntradasVendidas,
			CumulativeRevenue: decimal.NewFromFloat(row.Recaudado),
		})
	}
	return observations, nil
}
