package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TicketSync/internal/config"
	"TicketSync/internal/model"

	"github.com/stretchr/testify/require"

	_ "TicketSync/internal/adapter/movistar"
)

const movistarFeed = `{
  "actualizado": "2026-08-30T12:00:00Z",
  "eventos": [
    {
      "artista": "Soda Stereo",
      "recinto": "Movistar Arena",
      "fecha": "2026-10-15T21:00:00Z",
      "capacidad": 1000,
      "vendidos": 50,
      "recaudacion": "2500000",
      "sectores": [
        {"nombre": "Campo", "capacidad": 600, "vendidos": 30},
        {"nombre": "Platea", "capacidad": 400, "vendidos": 20}
      ]
    },
    {
      "artista": "Dato Roto",
      "recinto": "Movistar Arena",
      "fecha": "2026-11-01T21:00:00Z",
      "capacidad": 1000,
      "vendidos": -5,
      "recaudacion": "0"
    }
  ]
}`

func movistarTestConfig(exportURL string) *config.Config {
	return &config.Config{
		Vendors: map[string]config.VendorConfig{
			string(model.VendorMovistarArena): {ExportURL: exportURL, Timeout: 5},
		},
	}
}

func TestSyncVendorEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(movistarFeed))
	}))
	defer ts.Close()

	db := openTestDB(t)
	svc := NewSyncService(db, testLogger(), movistarTestConfig(ts.URL))

	summary, err := svc.SyncVendor(context.Background(), string(model.VendorMovistarArena))
	require.NoError(t, err)
	require.Equal(t, 2, summary.Observations)
	require.Equal(t, 1, summary.Inserted)
	require.Equal(t, 1, summary.Failed)
	require.NotEmpty(t, summary.BatchID)

	// The valid event landed as a show with a ledger row on the feed's
	// refresh date.
	var show model.Show
	require.NoError(t, db.Where("artista_norm = ?", "SODA STEREO").First(&show).Error)
	require.Equal(t, 1000, show.CapacidadTotal)

	var sale model.DailySale
	require.NoError(t, db.Where("show_id = ?", show.ID).First(&sale).Error)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), sale.FechaVenta.UTC())
	require.Equal(t, 50, sale.VentaDiaria)
	require.Equal(t, 50, sale.VentaTotalAcumulada)
	require.Equal(t, 950, sale.TicketsDisponibles)

	var sectors []model.Sector
	require.NoError(t, db.Where("show_id = ?", show.ID).Order("nombre").Find(&sectors).Error)
	require.Len(t, sectors, 2)
	require.Equal(t, "Campo", sectors[0].Nombre)
	require.Equal(t, 30, sectors[0].Vendidos)

	// The raw payload was archived under the batch.
	var raw model.RawData
	require.NoError(t, db.Where("batch_id = ?", summary.BatchID).First(&raw).Error)
	require.Equal(t, model.VendorMovistarArena, raw.Ticketera)
	require.JSONEq(t, movistarFeed, string(raw.Payload))
}

func TestSyncVendorRerunIsIdempotent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(movistarFeed))
	}))
	defer ts.Close()

	db := openTestDB(t)
	svc := NewSyncService(db, testLogger(), movistarTestConfig(ts.URL))
	ctx := context.Background()

	_, err := svc.SyncVendor(ctx, string(model.VendorMovistarArena))
	require.NoError(t, err)

	second, err := svc.SyncVendor(ctx, string(model.VendorMovistarArena))
	require.NoError(t, err)
	require.Equal(t, 0, second.Inserted)
	require.Equal(t, 1, second.Skipped)

	var count int64
	require.NoError(t, db.Model(&model.DailySale{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSyncVendorUnknown(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db, testLogger(), movistarTestConfig("http://unused"))

	_, err := svc.SyncVendor(context.Background(), "sketchy")
	require.ErrorIs(t, err, ErrUnknownVendor)

	// A real vendor with no configured adapter is also unknown here.
	_, err = svc.SyncVendor(context.Background(), string(model.VendorTuboleta))
	require.ErrorIs(t, err, ErrUnknownVendor)
}

func TestSyncVendorDisabled(t *testing.T) {
	cfg := movistarTestConfig("http://unused")
	cfg.Sync.EnabledVendors = []string{string(model.VendorTicketek)}

	db := openTestDB(t)
	svc := NewSyncService(db, testLogger(), cfg)

	_, err := svc.SyncVendor(context.Background(), string(model.VendorMovistarArena))
	require.ErrorIs(t, err, ErrVendorDisabled)
}
