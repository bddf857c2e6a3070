package port

import (
	"context"

	"walletscope/internal/domain/entity"
)

// ReportService is the single entry point exposed to the presentation layer.
type ReportService interface {
	// BuildReport assembles the full wallet report for an address. Individual
	// data-source failures degrade to zero-valued modules; an error is
	// returned only when the orchestrator itself cannot proceed.
	BuildReport(ctx context.Context, address string) (*entity.Report, error)
}
