package tuboleta

import (
	"testing"
	"time"

	"TicketSync/internal/config"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testAdapter() *Adapter {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return NewAdapter(&config.VendorConfig{}, l).(*Adapter)
}

func TestParseSumsZones(t *testing.T) {
	payload := []byte(`{
	  "generado_en": "2026-08-30T08:00:00Z",
	  "espectaculos": [
	    {
	      "nombre": "Carlos Vives",
	      "escenario": "Movistar Arena Bogotá",
	      "fecha": "2026-12-05T20:00:00Z",
	      "aforo_total": 14000,
	      "zonas": [
	        {"zona": "VIP", "aforo": 2000, "boletas_vendidas": 1200, "valor_vendido": "480000000"},
	        {"zona": "General", "aforo": 12000, "boletas_vendidas": 5300, "valor_vendido": "795000000.25"}
	      ]
	    }
	  ]
	}`)

	obs, err := testAdapter().Parse(payload)
	require.NoError(t, err)
	require.Len(t, obs, 1)

	o := obs[0]
	require.Equal(t, "Carlos Vives", o.Artist)
	require.Equal(t, 14000, o.Capacity)
	require.Equal(t, 6500, o.CumulativeUnits)
	require.True(t, decimal.RequireFromString("1275000000.25").Equal(o.CumulativeRevenue))
	require.NotNil(t, o.ReportedAt)
	require.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), o.ReportedAt.UTC())
	require.Len(t, o.Sectors, 2)
	require.Equal(t, "VIP", o.Sectors[0].Name)
	require.Equal(t, 1200, o.Sectors[0].Sold)
}

func TestParseSkipsShowWithBadZone(t *testing.T) {
	payload := []byte(`{
	  "espectaculos": [
	    {
	      "nombre": "Zona Rota",
	      "escenario": "X",
	      "fecha": "2026-12-05T20:00:00Z",
	      "zonas": [
	        {"zona": "VIP", "boletas_vendidas": 10, "valor_vendido": "no"}
	      ]
	    },
	    {
	      "nombre": "Bien",
	      "escenario": "X",
	      "fecha": "2026-12-05T20:00:00Z",
	      "zonas": [
	        {"zona": "General", "boletas_vendidas": 5, "valor_vendido": "100"}
	      ]
	    }
	  ]
	}`)

	obs, err := testAdapter().Parse(payload)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	require.Equal(t, "Bien", obs[0].Artist)
}
