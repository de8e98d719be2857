// Package insight applies threshold rules to aggregate outputs and selects
// narrative insights and prioritized recommendations.
package insight

import "shespeaks/internal/model"

// VolumeTier classifies the number of responses
type VolumeTier string

const (
	VolumeThriving  VolumeTier = "thriving"
	VolumeMomentum  VolumeTier = "momentum"
	VolumeBuilding  VolumeTier = "building"
	VolumeBeginning VolumeTier = "beginning"
)

// VolumeTierFor: >100 thriving, >50 momentum, >10 building, else beginning
func VolumeTierFor(n int) VolumeTier {
	switch {
	case n > 100:
		return VolumeThriving
	case n > 50:
		return VolumeMomentum
	case n > 10:
		return VolumeBuilding
	default:
		return VolumeBeginning
	}
}

// SentimentTier classifies the mean mood score
type SentimentTier string

const (
	SentimentPositive     SentimentTier = "positive"
	SentimentNeutral      SentimentTier = "neutral"
	SentimentNeedsSupport SentimentTier = "needs-support"
)

// SentimentTierFor: >=3.5 positive, >=2.5 neutral, else needs-support
func SentimentTierFor(mean float64) SentimentTier {
	switch {
	case mean >= 3.5:
		return SentimentPositive
	case mean >= 2.5:
		return SentimentNeutral
	default:
		return SentimentNeedsSupport
	}
}

// JudgedTier classifies the share of students who felt judged
type JudgedTier string

const (
	JudgedHigh     JudgedTier = "high"
	JudgedModerate JudgedTier = "moderate"
	JudgedLow      JudgedTier = "low"
)

// JudgedTierFor: >50 high, >25 moderate, else low
func JudgedTierFor(pct float64) JudgedTier {
	switch {
	case pct > 50:
		return JudgedHigh
	case pct > 25:
		return JudgedModerate
	default:
		return JudgedLow
	}
}

// Thresholds is an inclusive high/medium cutoff pair in percent
type Thresholds struct {
	High   float64
	Medium float64
}

// Classify: ratio >= High is high, >= Medium is medium, else low
func (th Thresholds) Classify(ratio float64) model.Urgency {
	switch {
	case ratio >= th.High:
		return model.UrgencyHigh
	case ratio >= th.Medium:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

// Cutoff is an exclusive single threshold: above it is high, otherwise medium
type Cutoff float64

func (c Cutoff) Classify(pct float64) model.Urgency {
	if pct > float64(c) {
		return model.UrgencyHigh
	}
	return model.UrgencyMedium
}
