package service

import (
	"fmt"
	"strings"

	"walletscope/internal/domain/entity"
)

// ratioPhrases maps allocation ratios to proportion words. Entries are
// ordered by descending threshold; the first one at or below the ratio wins.
var ratioPhrases = []struct {
	min    float64
	phrase string
}{
	{0.75, "a dominant share"},
	{0.5, "a high proportion"},
	{0.2, "a moderate proportion"},
	{0.0, "a small proportion"},
}

// usdScales maps magnitudes to unit suffixes for display.
var usdScales = []struct {
	min    float64
	div    float64
	suffix string
}{
	{1_000_000_000, 1_000_000_000, "B"},
	{1_000_000, 1_000_000, "M"},
	{1_000, 1_000, "K"},
}

// RatioPhrase renders a proportion word for an allocation ratio.
func RatioPhrase(ratio float64) string {
	for _, entry := range ratioPhrases {
		if ratio >= entry.min && ratio > 0 {
			return entry.phrase
		}
	}
	return "no"
}

// FormatUSD renders a dollar amount with a magnitude suffix: $1.23M, $45.6K.
func FormatUSD(value float64) string {
	for _, scale := range usdScales {
		if value >= scale.min {
			return fmt.Sprintf("$%.2f%s", value/scale.div, scale.suffix)
		}
	}
	return fmt.Sprintf("$%.2f", value)
}

// AgePhrase renders a wallet age in the largest sensible unit.
func AgePhrase(ageDays int) string {
	switch {
	case ageDays >= 365:
		years := ageDays / 365
		if years == 1 {
			return "about a year"
		}
		return fmt.Sprintf("about %d years", years)
	case ageDays >= 30:
		months := ageDays / 30
		if months == 1 {
			return "about a month"
		}
		return fmt.Sprintf("about %d months", months)
	case ageDays == 1:
		return "1 day"
	case ageDays > 0:
		return fmt.Sprintf("%d days", ageDays)
	default:
		return "less than a day"
	}
}

// BuildSummary concatenates independently generated sentence fragments into
// the report's narrative paragraph. Pure templating: no I/O, fully
// deterministic for identical inputs.
func BuildSummary(identity entity.IdentityModule, assets entity.AssetModule, activity entity.ActivityModule, risk entity.RiskAssessment) string {
	var parts []string

	parts = append(parts, identitySentence(identity))
	parts = append(parts, assetSentence(assets))
	parts = append(parts, activitySentence(activity))
	parts = append(parts, riskSentence(risk))

	return strings.Join(parts, " ")
}

func identitySentence(identity entity.IdentityModule) string {
	kind := "An externally-owned wallet"
	if identity.IsContract {
		kind = "A contract account"
	}
	if identity.FirstSeen.IsZero() {
		return kind + " with no observed on-chain activity."
	}
	return fmt.Sprintf("%s first seen %s ago.", kind, AgePhrase(identity.AgeDays))
}

func assetSentence(assets entity.AssetModule) string {
	if assets.TotalValueUSD == 0 {
		return "It currently holds no priced assets."
	}

	fragments := make([]string, 0, len(assets.Allocation))
	for _, bucket := range assets.Allocation {
		if bucket.ValueUSD <= 0 {
			continue
		}
		fragments = append(fragments, fmt.Sprintf("%s in %s", RatioPhrase(bucket.Ratio), strings.ToLower(string(bucket.Category))))
	}

	if len(fragments) == 0 {
		return fmt.Sprintf("It holds %s in total.", FormatUSD(assets.TotalValueUSD))
	}
	return fmt.Sprintf("It holds %s in total, with %s.", FormatUSD(assets.TotalValueUSD), strings.Join(fragments, ", "))
}

func activitySentence(activity entity.ActivityModule) string {
	if activity.TxCount == 0 {
		return "No outbound transactions were observed in the recent history."
	}
	return fmt.Sprintf("It initiated %d transactions across %d active days, interacting with %d distinct contracts.",
		activity.TxCount, activity.ActiveDays, activity.ContractsInteracted)
}

func riskSentence(risk entity.RiskAssessment) string {
	return fmt.Sprintf("Risk score: %d/100 (%s risk). %s", risk.Score, strings.ToLower(string(risk.Level)), risk.Comment)
}
