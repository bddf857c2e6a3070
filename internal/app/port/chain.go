package port

import (
	"context"
	"math/big"

	"walletscope/internal/domain/entity"
)

// ChainClient defines the interface for the blockchain RPC/indexing provider.
// Implementations are specific to node families (EVM for now).
type ChainClient interface {
	// NativeBalance fetches the native currency balance in base units (wei).
	NativeBalance(ctx context.Context, address string) (*big.Int, error)

	// IsContract reports whether code is deployed at the address.
	IsContract(ctx context.Context, address string) (bool, error)

	// TokenBalances lists non-zero fungible token balances for the address.
	TokenBalances(ctx context.Context, address string) ([]entity.RawTokenBalance, error)

	// TokenMetadata resolves symbol and decimals for a token contract.
	TokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error)

	// AssetTransfers lists up to maxCount recent transfers initiated by the
	// address, newest first, across all asset categories, with block times.
	AssetTransfers(ctx context.Context, fromAddress string, maxCount int) ([]entity.Transfer, error)

	// TransactionReceipt fetches the execution receipt of a mined transaction.
	TransactionReceipt(ctx context.Context, txHash string) (entity.Receipt, error)
}
