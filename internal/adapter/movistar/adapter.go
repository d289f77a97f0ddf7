// Package movistar ingests the Movistar Arena backoffice export. The
// external scraper publishes one JSON document with a dashboard refresh
// timestamp and per-sector breakdowns for every event on sale.
package movistar

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
	adapter.Register(model.VendorMovistarArena, NewAdapter)
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
	return model.VendorMovistarArena
}

func (a *Adapter) Fetch(ctx context.Context) (json.RawMessage, error) {
	return adapter.FetchJSON(ctx, a.httpClient, a.cfg.ExportURL, a.cfg.AuthToken, a.cfg.RetryCount, a.logger)
}

// feed is the export document shape.
type feed struct {
	Actualizado string `json:"actualizado"` // dashboard refresh, RFC3339
	Eventos     []struct {
		Artista     string `json:"artista"`
		Recinto     string `json:"recinto"`
		Fecha       string `json:"fecha"`
		Capacidad   int    `json:"capacidad"`
		Vendidos    int    `json:"vendidos"`
		Recaudacion string `json:"recaudacion"`
		Sectores    []struct {
			Nombre    string `json:"nombre"`
			Capacidad int    `json:"capacidad"`
			Vendidos  int    `json:"vendidos"`
		} `json:"sectores"`
	} `json:"eventos"`
}

func (a *Adapter) Parse(payload json.RawMessage) ([]*model.Observation, error) {
	var doc feed
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decoding movistar feed: %w", err)
	}

	var reportedAt *time.Time
	if doc.Actualizado != "" {
		t, err := time.Parse(time.RFC3339, doc.Actualizado)
		if err != nil {
			a.logger.WithError(err).Warn("movistar refresh timestamp unparseable, falling back to extraction time")
		} else {
			reportedAt = &t
		}
	}

	var observations []*model.Observation
	for _, ev := range doc.Eventos {
		fecha, err := time.Parse(time.RFC3339, ev.Fecha)
		if err != nil {
			a.logger.WithError(err).WithField("artista", ev.Artista).Warn("skipping event with unparseable date")
			continue
		}
		revenue, err := decimal.NewFromString(ev.Recaudacion)
		if err != nil {
			a.logger.WithError(err).WithField("artista", ev.Artista).Warn("skipping event with unparseable revenue")
			continue
		}

		sectors := make([]model.SectorSales, 0, len(ev.Sectores))
		for _, s := range ev.Sectores {
			sectors = append(sectors, model.SectorSales{
				Name:     s.Nombre,
				Capacity: s.Capacidad,
				Sold:     s.Vendidos,
			})
		}

		observations = append(observations, &model.Observation{
			Vendor:            model.VendorMovistarArena,
			Artist:            ev.Artista,
			Venue:             ev.Recinto,
			ShowDate:          fecha,
			Capacity:          ev.Capacidad,
			CumulativeUnits:   ev.Vendidos,
			CumulativeRevenue: revenue,
			ReportedAt:        reportedAt,
			Sectors:           sectors,
		})
	}
	return observations, nil
}
