package entity

import "time"

// Counterparty is a contract or address the wallet initiated transfers to,
// with its resolved human label and interaction count.
type Counterparty struct {
	Address string `json:"address"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
}

// WeekBucket counts outbound transfers in one ISO week (Monday start, UTC).
type WeekBucket struct {
	WeekStart time.Time `json:"weekStart"`
	Count     int       `json:"count"`
}

// ActivityModule summarizes outbound transfer activity. Only transfers where
// the subject address is the initiator are counted; incoming transfers are
// deliberately excluded.
type ActivityModule struct {
	TxCount             int            `json:"txCount"`
	ActiveDays          int            `json:"activeDays"`
	ContractsInteracted int            `json:"contractsInteracted"`
	TopContracts        []Counterparty `json:"topContracts"`
	WeeklyHistogram     []WeekBucket   `json:"weeklyHistogram"`
}
