package service

import (
	"context"
	"testing"
	"time"

	"TicketSync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestNormalizeArtist(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Los Piojos ", "LOS PIOJOS"},
		{"los piojos", "LOS PIOJOS"},
		{"Los   Piojos", "LOS PIOJOS"},
		{"Los Piojos!", "LOS PIOJOS"},
		{"AC/DC", "ACDC"},
		{"Café Tacvba", "CAFÉ TACVBA"},
		{"", ""},
		{"  ...  ", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeArtist(tt.in), "input %q", tt.in)
	}
}

func TestResolveOrCreateReusesShowAcrossCasing(t *testing.T) {
	db := openTestDB(t)
	registry := NewShowRegistryService(db, testLogger())
	ctx := context.Background()

	showDate := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)

	first, err := registry.ResolveOrCreate(ctx, &model.Observation{
		Vendor:   model.VendorPlateanet,
		Artist:   "Los Piojos",
		Venue:    "Luna Park",
		ShowDate: showDate,
		Capacity: 8000,
	})
	require.NoError(t, err)

	second, err := registry.ResolveOrCreate(ctx, &model.Observation{
		Vendor:   model.VendorPlateanet,
		Artist:   "  LOS   PIOJOS! ",
		Venue:    "Luna Park",
		ShowDate: showDate,
		Capacity: 8000,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Show{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestResolveOrCreateDistinctPerVendor(t *testing.T) {
	db := openTestDB(t)
	registry := NewShowRegistryService(db, testLogger())
	ctx := context.Background()

	showDate := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)
	base := model.Observation{
		Artist:   "Los Piojos",
		Venue:    "Luna Park",
		ShowDate: showDate,
		Capacity: 8000,
	}

	a := base
	a.Vendor = model.VendorPlateanet
	b := base
	b.Vendor = model.VendorTicketek

	showA, err := registry.ResolveOrCreate(ctx, &a)
	require.NoError(t, err)
	showB, err := registry.ResolveOrCreate(ctx, &b)
	require.NoError(t, err)
	require.NotEqual(t, showA.ID, showB.ID)
}

func TestResolveOrCreateCapacityRefresh(t *testing.T) {
	db := openTestDB(t)
	registry := NewShowRegistryService(db, testLogger())
	ctx := context.Background()

	showDate := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)
	obs := model.Observation{
		Vendor:   model.VendorMovistarArena,
		Artist:   "Soda Stereo",
		Venue:    "Movistar Arena",
		ShowDate: showDate,
	}

	// First sight without capacity.
	first, err := registry.ResolveOrCreate(ctx, &obs)
	require.NoError(t, err)
	require.Equal(t, 0, first.CapacidadTotal)

	// Vendor later reports the real capacity.
	obs.Capacity = 12000
	second, err := registry.ResolveOrCreate(ctx, &obs)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 12000, second.CapacidadTotal)

	// A zero-capacity observation never downgrades the stored value.
	obs.Capacity = 0
	third, err := registry.ResolveOrCreate(ctx, &obs)
	require.NoError(t, err)
	require.Equal(t, 12000, third.CapacidadTotal)
}

func TestResolveOrCreateRejectsIncompleteObservations(t *testing.T) {
	db := openTestDB(t)
	registry := NewShowRegistryService(db, testLogger())
	ctx := context.Background()

	showDate := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)

	cases := []model.Observation{
		{Vendor: model.VendorTicketek, Artist: "", Venue: "Luna Park", ShowDate: showDate},
		{Vendor: model.VendorTicketek, Artist: "Los Piojos", Venue: "  ", ShowDate: showDate},
		{Vendor: model.VendorTicketek, Artist: "Los Piojos", Venue: "Luna Park"},
		{Vendor: "sketchy", Artist: "Los Piojos", Venue: "Luna Park", ShowDate: showDate},
	}
	for _, obs := range cases {
		o := obs
		_, err := registry.ResolveOrCreate(ctx, &o)
		require.ErrorIs(t, err, ErrInvalidObservation)
	}
}
