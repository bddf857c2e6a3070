package service

import (
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/utils"
)

// Score adjustment thresholds. All adjustments are additive against the base,
// so their application order never changes the final score.
const (
	riskBaseScore = 50

	stableHeavyRatio    = 0.5
	stableModerateRatio = 0.3
	stableLowRatio      = 0.05
	memeHeavyRatio      = 0.3
	memeModerateRatio   = 0.15
	largePortfolioUSD   = 100_000
	smallPortfolioUSD   = 1_000
	highFrequencyTxs    = 200

	adjStableHeavy    = +20
	adjStableModerate = +10
	adjStableLow      = -10
	adjMemeHeavy      = -20
	adjMemeModerate   = -10
	adjLargeHoldings  = -5
	adjSmallHoldings  = +5
	adjDormant        = +5
	adjHighFrequency  = -5
)

// Tier boundaries, inclusive on the lower bound of each tier.
const (
	lowRiskFloor    = 70
	mediumRiskFloor = 40
)

const conservativeScoreFloor = 75

// Risk comment per tier, with a dedicated branch for empty wallets.
const (
	commentNoAssets   = "No assets detected in this wallet, so there is nothing at risk right now."
	commentLowRisk    = "The portfolio leans on stable, established assets; overall risk looks low."
	commentMediumRisk = "A mixed portfolio with moderate exposure; worth keeping an eye on allocation drift."
	commentHighRisk   = "The portfolio carries significant exposure to volatile assets; risk is elevated."
)

// Persona labels.
const (
	PersonaDormant       = "Dormant Holder"
	PersonaConservative  = "Conservative Holder"
	PersonaMemeVolatile  = "High-Volatility Meme Holder"
	PersonaAggressive    = "Aggressive Holder"
	PersonaHighFrequency = "High-Frequency Trader"
	PersonaNeutral       = "Balanced Holder"
)

// ComputeRisk maps asset allocation and outbound activity onto a bounded
// score, a tier, and a persona. It is a pure function: no I/O, deterministic
// for identical inputs, and total over every module state the aggregators can
// produce, including all-zero ones.
func ComputeRisk(assets entity.AssetModule, activity entity.ActivityModule) entity.RiskAssessment {
	stableRatio, memeRatio := allocationRatios(assets.Allocation)
	// Upstream float error can push the pair past 1; the remainder is clamped
	// so OtherRatio is never negative.
	otherRatio := utils.ClampFloat(1-stableRatio-memeRatio, 0, 1)

	total := assets.TotalValueUSD
	txCount := activity.TxCount

	score := riskBaseScore

	switch {
	case stableRatio >= stableHeavyRatio:
		score += adjStableHeavy
	case stableRatio >= stableModerateRatio:
		score += adjStableModerate
	case stableRatio <= stableLowRatio && total > 0:
		score += adjStableLow
	}

	switch {
	case memeRatio >= memeHeavyRatio:
		score += adjMemeHeavy
	case memeRatio >= memeModerateRatio:
		score += adjMemeModerate
	}

	switch {
	case total >= largePortfolioUSD:
		score += adjLargeHoldings
	case total > 0 && total <= smallPortfolioUSD:
		score += adjSmallHoldings
	}

	switch {
	case txCount == 0:
		score += adjDormant
	case txCount > highFrequencyTxs:
		score += adjHighFrequency
	}

	score = utils.Clamp(score, 0, 100)
	level := tierFor(score)

	assessment := entity.RiskAssessment{
		Score:       score,
		Level:       level,
		StableRatio: stableRatio,
		MemeRatio:   memeRatio,
		OtherRatio:  otherRatio,
		Comment:     commentFor(level, total),
	}
	assessment.PersonaType, assessment.PersonaTags = buildPersona(personaInput{
		totalValueUSD: total,
		stableRatio:   stableRatio,
		memeRatio:     memeRatio,
		txCount:       txCount,
		score:         score,
		level:         level,
	})
	return assessment
}

// allocationRatios sums the ratio of every stablecoin and meme bucket. The
// engine does not assume each category appears at most once.
func allocationRatios(buckets []entity.AllocationBucket) (stable, meme float64) {
	for _, b := range buckets {
		switch b.Category {
		case entity.CategoryStablecoins:
			stable += b.Ratio
		case entity.CategoryMeme:
			meme += b.Ratio
		}
	}
	return stable, meme
}

func tierFor(score int) entity.RiskLevel {
	switch {
	case score >= lowRiskFloor:
		return entity.RiskLow
	case score >= mediumRiskFloor:
		return entity.RiskMedium
	default:
		return entity.RiskHigh
	}
}

func commentFor(level entity.RiskLevel, totalValueUSD float64) string {
	if totalValueUSD == 0 {
		return commentNoAssets
	}
	switch level {
	case entity.RiskLow:
		return commentLowRisk
	case entity.RiskMedium:
		return commentMediumRisk
	default:
		return commentHighRisk
	}
}

type personaInput struct {
	totalValueUSD float64
	stableRatio   float64
	memeRatio     float64
	txCount       int
	score         int
	level         entity.RiskLevel
}

// personaRule is one (predicate, label) entry of the persona cascade.
type personaRule struct {
	label string
	match func(personaInput) bool
}

// The cascade is priority-ordered: the first matching rule wins and later
// rules must not override it, even when their conditions also hold.
var personaCascade = []personaRule{
	{PersonaDormant, func(in personaInput) bool {
		return in.txCount == 0 && in.totalValueUSD > 0
	}},
	{PersonaConservative, func(in personaInput) bool {
		return in.score >= conservativeScoreFloor && in.stableRatio >= stableModerateRatio
	}},
	{PersonaMemeVolatile, func(in personaInput) bool {
		return in.score <= 35 && in.memeRatio >= 0.2
	}},
	{PersonaAggressive, func(in personaInput) bool {
		return in.score <= 40
	}},
	{PersonaHighFrequency, func(in personaInput) bool {
		return in.txCount > highFrequencyTxs
	}},
}

// buildPersona derives the single persona type plus the descriptive tag list.
// Each tag category contributes at most one tag; categories are independent,
// so the list holds between zero and four tags.
func buildPersona(in personaInput) (string, []string) {
	personaType := PersonaNeutral
	for _, rule := range personaCascade {
		if rule.match(in) {
			personaType = rule.label
			break
		}
	}

	tags := make([]string, 0, 4)

	// Asset structure. Low-ratio observations are only informative when the
	// wallet actually holds something.
	switch {
	case in.stableRatio >= stableHeavyRatio:
		tags = append(tags, "Stable-Focused")
	case in.memeRatio >= memeHeavyRatio:
		tags = append(tags, "Meme-Heavy")
	case in.totalValueUSD > 0 && in.stableRatio <= stableLowRatio:
		tags = append(tags, "Thin Stable Reserve")
	}

	// Position size.
	switch {
	case in.totalValueUSD >= largePortfolioUSD:
		tags = append(tags, "Large Position")
	case in.totalValueUSD >= 10_000:
		tags = append(tags, "Mid-Size Position")
	case in.totalValueUSD > 0 && in.totalValueUSD <= smallPortfolioUSD:
		tags = append(tags, "Small Position")
	}

	// Activity frequency.
	switch {
	case in.txCount == 0:
		tags = append(tags, "Inactive")
	case in.txCount > highFrequencyTxs:
		tags = append(tags, "Hyperactive")
	case in.txCount >= 50:
		tags = append(tags, "Frequent User")
	}

	// Risk tier.
	switch in.level {
	case entity.RiskHigh:
		tags = append(tags, "Elevated Risk")
	case entity.RiskLow:
		tags = append(tags, "Low Risk Profile")
	}

	return personaType, tags
}
