package port

import (
	"context"

	"walletscope/internal/domain/entity"
)

// StatsStore is the counter service behind page views and value history.
type StatsStore interface {
	// IncrementView bumps and returns the view counter for an address.
	IncrementView(ctx context.Context, address string) (int64, error)

	// UniqueWallets returns how many distinct addresses have been queried.
	UniqueWallets(ctx context.Context) (int64, error)

	// RecordValue appends a total-value sample for an address. The per-address
	// history is a bounded ring; old samples beyond the cap are dropped.
	RecordValue(ctx context.Context, address string, valueUSD float64) error

	// LatestValue returns the most recent sample recorded for the address
	// before the current request, or ok=false when there is none.
	LatestValue(ctx context.Context, address string) (entity.ValueSample, bool, error)

	// ValueHistory returns up to limit samples for the address, oldest first.
	ValueHistory(ctx context.Context, address string, limit int) ([]entity.ValueSample, error)
}
