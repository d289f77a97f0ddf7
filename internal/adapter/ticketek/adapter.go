// Package ticketek ingests the Ticketek backoffice export: one row per
// function (performance), each carrying its own last-refresh timestamp.
package ticketek

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
	adapter.Register(model.VendorTicketek, NewAdapter)
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
	return model.VendorTicketek
}

func (a *Adapter) Fetch(ctx context.Context) (json.RawMessage, error) {
	return adapter.FetchJSON(ctx, a.httpClient, a.cfg.ExportURL, a.cfg.AuthToken, a.cfg.RetryCount, a.logger)
}

type feed struct {
	Funciones []struct {
		Espectaculo         string `json:"espectaculo"`
		Sala                string `json:"sala"`
		FechaFuncion        string `json:"fecha_funcion"`
		Aforo               int    `json:"aforo"`
		TotalVendido        int    `json:"total_vendido"`
		MontoTotal          string `json:"monto_total"`
		UltimaActualizacion string `json:"ultima_actualizacion"`
	} `json:"funciones"`
}

func (a *Adapter) Parse(payload json.RawMessage) ([]*model.Observation, error) {
	var doc feed
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decoding ticketek feed: %w", err)
	}

	var observations []*model.Observation
	for _, fn := range doc.Funciones {
		fecha, err := time.Parse(time.RFC3339, fn.FechaFuncion)
		if err != nil {
			a.logger.WithError(err).WithField("espectaculo", fn.Espectaculo).Warn("skipping function with unparseable date")
			continue
		}
		revenue, err := decimal.NewFromString(fn.MontoTotal)
		if err != nil {
			a.logger.WithError(err).WithField("espectaculo", fn.Espectaculo).Warn("skipping function with unparseable amount")
			continue
		}

		// Each function reports its own refresh timestamp.
		var reportedAt *time.Time
		if fn.UltimaActualizacion != "" {
			if t, err := time.Parse(time.RFC3339, fn.UltimaActualizacion); err == nil {
				reportedAt = &t
			}
		}

		observations = append(observations, &model.Observation{
			Vendor:            model.VendorTicketek,
			Artist:            fn.Espectaculo,
			Venue:             fn.Sala,
			ShowDate:          fecha,
			Capacity:          fn.Aforo,
			CumulativeUnits:   fn.TotalVendido,
			CumulativeRevenue: revenue,
			ReportedAt:        reportedAt,
		})
	}
	return observations, nil
}
