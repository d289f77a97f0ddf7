package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Show is one performance of an artist at a venue as seen by one vendor.
// Identity is (artista_norm, venue, fecha_show, ticketera); artista keeps the
// vendor's original casing for display.
type Show struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Artista        string    `gorm:"column:artista;type:varchar(255);not null"`
	ArtistaNorm    string    `gorm:"column:artista_norm;type:varchar(255);not null;uniqueIndex:uk_show_identidad,priority:1"`
	Venue          string    `gorm:"column:venue;type:varchar(255);not null;uniqueIndex:uk_show_identidad,priority:2"`
	FechaShow      time.Time `gorm:"column:fecha_show;type:timestamp;not null;uniqueIndex:uk_show_identidad,priority:3"`
	CapacidadTotal int       `gorm:"column:capacidad_total;type:int;not null;default:0"`
	Ticketera      Vendor    `gorm:"column:ticketera;type:varchar(32);not null;uniqueIndex:uk_show_identidad,priority:4"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DailySale is one ledger row: the sales attributed to one show on one
// calendar date, plus the raw cumulative figures read at that extraction.
// Unique per (show_id, fecha_venta); re-extractions the same day update in
// place, rows are never deleted here.
type DailySale struct {
	ID                  uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	ShowID              uint64          `gorm:"column:show_id;type:bigint;not null;uniqueIndex:uk_show_fecha,priority:1"`
	FechaVenta          time.Time       `gorm:"column:fecha_venta;type:date;not null;uniqueIndex:uk_show_fecha,priority:2"`
	FechaExtraccion     time.Time       `gorm:"column:fecha_extraccion;type:timestamp;not null"`
	VentaDiaria         int             `gorm:"column:venta_diaria;type:int;not null;default:0"`
	MontoDiarioARS      decimal.Decimal `gorm:"column:monto_diario_ars;type:numeric(18,2);not null;default:0"`
	VentaTotalAcumulada int             `gorm:"column:venta_total_acumulada;type:int;not null;default:0"`
	RecaudacionTotalARS decimal.Decimal `gorm:"column:recaudacion_total_ars;type:numeric(18,2);not null;default:0"`
	TicketsDisponibles  int             `gorm:"column:tickets_disponibles;type:int;not null;default:0"`
	PorcentajeOcupacion float64         `gorm:"column:porcentaje_ocupacion;type:numeric(5,2);not null;default:0"`
	Ticketera           Vendor          `gorm:"column:ticketera;type:varchar(32);not null"`
}

// Sector is the latest per-sector capacity/sold breakdown for a show, kept
// only for vendors that report one. Unique per (show_id, nombre).
type Sector struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ShowID    uint64    `gorm:"column:show_id;type:bigint;not null;uniqueIndex:uk_show_sector,priority:1"`
	Nombre    string    `gorm:"column:nombre;type:varchar(128);not null;uniqueIndex:uk_show_sector,priority:2"`
	Capacidad int       `gorm:"column:capacidad;type:int;not null;default:0"`
	Vendidos  int       `gorm:"column:vendidos;type:int;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// RawData stores each vendor feed payload verbatim before any parsing, so a
// bad reconciliation can be replayed against the original input.
type RawData struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	BatchID   string         `gorm:"column:batch_id;type:varchar(36);index;not null"`
	Ticketera Vendor         `gorm:"column:ticketera;type:varchar(32);not null"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null"`
	FetchedAt time.Time      `gorm:"column:fetched_at;type:timestamp;not null"`
}

func (Show) TableName() string      { return "shows" }
func (DailySale) TableName() string { return "daily_sales" }
func (Sector) TableName() string    { return "sectores" }
func (RawData) TableName() string   { return "raw_data" }
