package port

import "context"

// PriceService defines the interface for the price-quote provider.
type PriceService interface {
	// NativePriceUSD returns the native currency spot price in USD.
	NativePriceUSD(ctx context.Context) (float64, error)

	// TokenPricesUSD returns spot prices keyed by lower-cased contract
	// address. Tokens with no quote are absent from the map, not zero-filled.
	// Callers may pass more addresses than the provider's batch cap; the
	// implementation splits the request.
	TokenPricesUSD(ctx context.Context, contractAddresses []string) (map[string]float64, error)
}
