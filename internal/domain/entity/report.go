package entity

import "time"

// Report is the aggregate root assembled once per request. It is not mutated
// after construction; a cached copy may be served with FromCache set.
type Report struct {
	Address          string          `json:"address"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	FromCache        bool            `json:"fromCache"`
	Identity         IdentityModule  `json:"identity"`
	Assets           AssetModule     `json:"assets"`
	Activity         ActivityModule  `json:"activity"`
	Gas              GasModule       `json:"gas"`
	Approvals        ApprovalsModule `json:"approvals"`
	Risk             RiskAssessment  `json:"risk"`
	Summary          string          `json:"summary"`
	PreviousValueUSD *float64        `json:"previousValueUSD,omitempty"`
	ValueDeltaUSD    *float64        `json:"valueDeltaUSD,omitempty"`
	PageViews        int64           `json:"pageViews"`
}

// ModuleError records a non-fatal failure inside one aggregator. Module
// softness means these are surfaced as data, not as Go errors.
type ModuleError struct {
	Module  string `json:"module"`
	Message string `json:"message"`
}

// ValueSample is one recorded total-value observation for an address.
type ValueSample struct {
	ValueUSD   float64   `json:"valueUsd"`
	RecordedAt time.Time `json:"recordedAt"`
}
