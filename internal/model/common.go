package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor identifies the ticketing platform an observation came from.
type Vendor string

const (
	VendorMovistarArena Vendor = "movistar_arena"
	VendorPlateanet     Vendor = "plateanet"
	VendorTicketek      Vendor = "ticketek"
	VendorTuboleta      Vendor = "tuboleta"
)

// AllVendors lists every vendor this service knows how to sync.
var AllVendors = []Vendor{VendorMovistarArena, VendorPlateanet, VendorTicketek, VendorTuboleta}

// Valid reports whether v is a known vendor tag.
func (v Vendor) Valid() bool {
	for _, known := range AllVendors {
		if v == known {
			return true
		}
	}
	return false
}

// SectorSales is one sector/zone breakdown row as reported by a vendor.
type SectorSales struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Sold     int    `json:"sold"`
}

// Observation is the vendor-parsed sales state of one show at one extraction,
// the unit of work an adapter hands to the sync pipeline.
type Observation struct {
	Vendor            Vendor
	Artist            string
	Venue             string
	ShowDate          time.Time
	Capacity          int
	CumulativeUnits   int
	CumulativeRevenue decimal.Decimal
	// ReportedAt is the vendor-side "last refresh" timestamp when the feed
	// carries one; nil means the extraction wall-clock decides the sale date.
	ReportedAt *time.Time
	Sectors    []SectorSales
}

// UpsertResult is the outcome of recording one observation in the ledger.
type UpsertResult string

const (
	UpsertInserted UpsertResult = "inserted"
	UpsertUpdated  UpsertResult = "updated"
	UpsertSkipped  UpsertResult = "skipped"
)

// ObservationInput is the resolved input to the ledger: the show is already
// known and the sale date already decided.
type ObservationInput struct {
	ShowID            uint64
	SaleDate          time.Time
	CumulativeUnits   int
	CumulativeRevenue decimal.Decimal
	Capacity          int
	Vendor            Vendor
	// ExtractedAt orders concurrent extractions within a day; zero means now.
	ExtractedAt time.Time
}

// DateOnly truncates t to its calendar date (midnight UTC), the grain of the
// daily_sales table.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
