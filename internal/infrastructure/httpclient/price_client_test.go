package httpclient

import (
	"math"
	"testing"
)

func quote(addr, priceUSD string, liquidityUSD float64) pairData {
	var p pairData
	p.BaseToken.Address = addr
	p.PriceUSD = priceUSD
	p.Liquidity.USD = liquidityUSD
	return p
}

func TestBestQuotesPrefersDeepestPool(t *testing.T) {
	token := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	pairs := []pairData{
		quote(token, "0.98", 10_000),
		quote(token, "1.00", 5_000_000),
		quote(token, "1.05", 200),
	}

	prices := bestQuotes(pairs)

	if got := prices[token]; math.Abs(got-1.00) > 1e-9 {
		t.Errorf("price = %v, want 1.00 from the deepest pool", got)
	}
}

func TestBestQuotesSkipsInvalidEntries(t *testing.T) {
	pairs := []pairData{
		quote("", "1.00", 100),
		quote("0x1111111111111111111111111111111111111111", "", 100),
		quote("0x2222222222222222222222222222222222222222", "-5", 100),
		quote("0x3333333333333333333333333333333333333333", "2.50", 100),
	}

	prices := bestQuotes(pairs)

	if len(prices) != 1 {
		t.Fatalf("prices = %v, want only the one valid quote", prices)
	}
	if prices["0x3333333333333333333333333333333333333333"] != 2.5 {
		t.Errorf("valid quote missing: %v", prices)
	}
}

func TestBestQuotesNormalizesAddressCase(t *testing.T) {
	pairs := []pairData{
		quote("0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", "1.00", 100),
	}

	prices := bestQuotes(pairs)

	if _, ok := prices["0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"]; !ok {
		t.Errorf("expected lower-cased key, got %v", prices)
	}
}
