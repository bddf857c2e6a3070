package entity

import "time"

// IdentityModule classifies the address and estimates its age from the
// earliest observed activity. FirstSeen is the zero time when no activity
// was observed.
type IdentityModule struct {
	Address    string    `json:"address"`
	IsContract bool      `json:"isContract"`
	FirstSeen  time.Time `json:"firstSeen,omitempty"`
	AgeDays    int       `json:"ageDays"`
}
