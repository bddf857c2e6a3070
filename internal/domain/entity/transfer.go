package entity

import (
	"math/big"
	"time"
)

// Transfer is one normalized entry from the indexer's transfer feed.
type Transfer struct {
	Hash      string    `json:"hash"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Asset     string    `json:"asset"`
	Category  string    `json:"category"`
	Value     float64   `json:"value"`
	BlockNum  uint64    `json:"blockNum"`
	Timestamp time.Time `json:"timestamp"`
}

// RawTokenBalance is an unpriced, undecoded token balance straight from the
// indexer. RawAmount is in base units.
type RawTokenBalance struct {
	ContractAddress string
	RawAmount       *big.Int
}

// TokenMetadata is the decoded symbol/decimals pair for a token contract.
type TokenMetadata struct {
	Symbol   string
	Decimals uint8
}

// Receipt carries the execution fee fields of a mined transaction.
// EffectiveGasPrice falls back to the legacy gasPrice field when the node
// does not report an effective price.
type Receipt struct {
	TxHash            string
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// ExplorerTx is one entry from the block explorer's transaction history,
// including the decoded method information used by the approval scanner.
type ExplorerTx struct {
	Hash         string
	To           string
	MethodID     string
	FunctionName string
	Input        string
	Timestamp    time.Time
}
