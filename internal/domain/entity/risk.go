package entity

// RiskLevel is the tier a risk score maps to.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskAssessment is the output of the risk and persona engine. It is computed
// fresh on every report request and never persisted on its own.
// StableRatio + MemeRatio + OtherRatio always sum to 1; a portfolio without
// value reports StableRatio and MemeRatio as 0 and OtherRatio as 1.
type RiskAssessment struct {
	Score       int       `json:"score"`
	Level       RiskLevel `json:"level"`
	StableRatio float64   `json:"stableRatio"`
	MemeRatio   float64   `json:"memeRatio"`
	OtherRatio  float64   `json:"otherRatio"`
	PersonaType string    `json:"personaType"`
	PersonaTags []string  `json:"personaTags"`
	Comment     string    `json:"comment"`
}
