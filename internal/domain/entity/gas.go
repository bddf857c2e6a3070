package entity

// GasTx is the fee expenditure of a single transaction.
type GasTx struct {
	Hash    string  `json:"hash"`
	CostETH float64 `json:"costEth"`
	CostUSD float64 `json:"costUsd"`
}

// GasModule aggregates fee expenditure over a bounded sample of recent
// outbound transactions. TopTxs is a subset of the sampled set, so the sum
// of its costs never exceeds TotalGasETH.
type GasModule struct {
	SampledTxs  int     `json:"sampledTxs"`
	TotalGasETH float64 `json:"totalGasEth"`
	TotalGasUSD float64 `json:"totalGasUsd"`
	TopTxs      []GasTx `json:"topTxs"`
}
