package interfaces

import (
	"context"

	"TicketSync/internal/model"
)

// ShowRegistry resolves a vendor observation to a durable show row, creating
// one on first sight, and keeps its capacity current.
type ShowRegistry interface {
	ResolveOrCreate(ctx context.Context, obs *model.Observation) (*model.Show, error)
	UpdateCapacity(ctx context.Context, showID uint64, capacity int) error
}

// SalesLedger is the single entry point of the daily differential ledger:
// snapshot read, delta computation, inventory derivation and upsert in one
// call. Expected business outcomes (no prior data, no change) come back as
// results, never as errors.
type SalesLedger interface {
	RecordObservation(ctx context.Context, in model.ObservationInput) (model.UpsertResult, error)
}
