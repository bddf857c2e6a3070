package entity

import "time"

// Approval is an on-chain authorization letting a spender move a token on
// the owner's behalf. Unlimited denotes the maximum representable allowance.
type Approval struct {
	TokenAddress string    `json:"tokenAddress"`
	TokenSymbol  string    `json:"tokenSymbol"`
	Spender      string    `json:"spender"`
	SpenderLabel string    `json:"spenderLabel"`
	Unlimited    bool      `json:"unlimited"`
	HighRisk     bool      `json:"highRisk"`
	Timestamp    time.Time `json:"timestamp"`
}

// ApprovalsModule lists the most recent approvals found in the wallet's
// transaction history, deduplicated by (token, spender) pair, flagged
// entries first.
type ApprovalsModule struct {
	Scanned       int        `json:"scanned"`
	HighRiskCount int        `json:"highRiskCount"`
	Approvals     []Approval `json:"approvals"`
}
