package utils

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// BaseUnitsToFloat converts an integer base-unit quantity into its decimal
// representation (amount / 10^decimals) as a float64. The division is done
// with shopspring/decimal so the rounding happens once, at the final float
// conversion; precision loss beyond float64 is accepted by the data model.
// A nil amount converts to 0.
func BaseUnitsToFloat(amount *big.Int, decimals uint8) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}
	d := decimal.NewFromBigInt(amount, -int32(decimals))
	f, _ := d.Float64()
	return f
}

// WeiToEth converts a wei quantity to ether.
func WeiToEth(wei *big.Int) float64 {
	return BaseUnitsToFloat(wei, 18)
}

// SafeFloat parses a decimal string, returning 0 for empty or invalid input.
func SafeFloat(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseHexUint64 parses a 0x-prefixed hex quantity, returning 0 on bad input.
func ParseHexUint64(value string) uint64 {
	if len(value) < 3 || value[0] != '0' || (value[1] != 'x' && value[1] != 'X') {
		return 0
	}
	v, err := strconv.ParseUint(value[2:], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// Clamp bounds v to the [lo, hi] interval.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to the [lo, hi] interval.
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
