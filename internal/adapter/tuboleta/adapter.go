// Package tuboleta ingests the Tuboleta backoffice export. Tuboleta only
// reports per-zone figures, so the show-level cumulative totals are the sum
// of its zones.
package tuboleta

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
	adapter.Register(model.VendorTuboleta, NewAdapter)
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
	return model.VendorTuboleta
}

func (a *Adapter) Fetch(ctx context.Context) (json.RawMessage, error) {
	return adapter.FetchJSON(ctx, a.httpClient, a.cfg.ExportURL, a.cfg.AuthToken, a.cfg.RetryCount, a.logger)
}

type feed struct {
	GeneradoEn   string `json:"generado_en"`
	Espectaculos []struct {
		Nombre     string `json:"nombre"`
		Escenario  string `json:"escenario"`
		Fecha      string `json:"fecha"`
		AforoTotal int    `json:"aforo_total"`
		Zonas      []struct {
			Zona            string `json:"zona"`
			Aforo           int    `json:"aforo"`
			BoletasVendidas int    `json:"boletas_vendidas"`
			ValorVendido    string `json:"valor_vendido"`
		} `json:"zonas"`
	} `json:"espectaculos"`
}

func (a *Adapter) Parse(payload json.RawMessage) ([]*model.Observation, error) {
	var doc feed
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decoding tuboleta feed: %w", err)
	}

	var reportedAt *time.Time
	if doc.GeneradoEn != "" {
		if t, err := time.Parse(time.RFC3339, doc.GeneradoEn); err == nil {
			reportedAt = &t
		}
	}

	var observations []*model.Observation
	for _, esp := range doc.Espectaculos {
		fecha, err := time.Parse(time.RFC3339, esp.Fecha)
		if err != nil {
			a.logger.WithError(err).WithField("nombre", esp.Nombre).Warn("skipping espectaculo with unparseable date")
			continue
		}

		var units int
		revenue := decimal.Zero
		sectors := make([]model.SectorSales, 0, len(esp.Zonas))
		badZone := false
		for _, z := range esp.Zonas {
			valor, err := decimal.NewFromString(z.ValorVendido)
			if err != nil {
				a.logger.WithError(err).WithFields(logrus.Fields{
					"nombre": esp.Nombre,
					"zona":   z.Zona,
				}).Warn("skipping espectaculo with unparseable zone amount")
				badZone = true
				break
			}
			units += z.BoletasVendidas
			revenue = revenue.Add(valor)
			sectors = append(sectors, model.SectorSales{
				Name:     z.Zona,
				Capacity: z.Aforo,
				Sold:     z.BoletasVendidas,
			})
		}
		if badZone {
			continue
		}

		observations = append(observations, &model.Observation{
			Vendor:            model.VendorTuboleta,
			Artist:            esp.Nombre,
			Venue:             esp.Escenario,
			ShowDate:          fecha,
			Capacity:          esp.AforoTotal,
			CumulativeUnits:   units,
			CumulativeRevenue: revenue,
			ReportedAt:        reportedAt,
			Sectors:           sectors,
		})
	}
	return observations, nil
}
