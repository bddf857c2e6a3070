package entity

// AllocationCategory names a bucket of holdings grouped by risk character.
type AllocationCategory string

const (
	CategoryETH         AllocationCategory = "ETH"
	CategoryStablecoins AllocationCategory = "Stablecoins"
	CategoryMajors      AllocationCategory = "Majors"
	CategoryMeme        AllocationCategory = "Meme"
	CategoryOthers      AllocationCategory = "Others"
)

// TokenHolding represents a priced or unpriced quantity of a fungible token
// owned by an address. Amount is the base-unit quantity divided by
// 10^Decimals; precision loss beyond float64 is accepted.
type TokenHolding struct {
	ContractAddress string  `json:"contractAddress"`
	Symbol          string  `json:"symbol"`
	Decimals        uint8   `json:"decimals"`
	Amount          float64 `json:"amount"`
	ValueUSD        float64 `json:"valueUSD"`
	HasPrice        bool    `json:"hasPrice"`
}

// AllocationBucket aggregates holdings of one category.
// Ratio is ValueUSD / total portfolio value, 0 when the total is 0.
type AllocationBucket struct {
	Category AllocationCategory `json:"category"`
	ValueUSD float64            `json:"valueUSD"`
	Ratio    float64            `json:"ratio"`
}

// AssetModule is the priced view of everything the wallet holds.
// An all-zero module is a valid output: every sub-fetch degrades to an
// empty result on upstream failure rather than surfacing an error.
type AssetModule struct {
	NativeBalance  float64            `json:"nativeBalance"`
	NativeValueUSD float64            `json:"nativeValueUSD"`
	Holdings       []TokenHolding     `json:"holdings"`
	LongTail       []TokenHolding     `json:"longTail"`
	Allocation     []AllocationBucket `json:"allocation"`
	TotalValueUSD  float64            `json:"totalValueUSD"`
	Warning        string             `json:"warning,omitempty"`
}
