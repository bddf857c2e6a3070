package port

import (
	"context"

	"walletscope/internal/domain/entity"
)

// ExplorerClient defines the interface for the block-explorer REST service.
// When no API key is configured both methods degrade to empty results; the
// dashboard renders without explorer-backed data rather than failing.
type ExplorerClient interface {
	// ContractName returns the verified contract name for an address, or ""
	// when the address is unverified or unknown.
	ContractName(ctx context.Context, address string) (string, error)

	// AccountTransactions lists up to limit recent transactions sent by the
	// address, newest first, with decoded method name and raw input.
	AccountTransactions(ctx context.Context, address string, limit int) ([]entity.ExplorerTx, error)
}
