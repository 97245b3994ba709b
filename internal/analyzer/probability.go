package analyzer

import "math"

// Probability is the incident-probability estimate derived from the analyses
// of a single submission.
type Probability struct {
	Probability int    `json:"probability"`
	RiskLevel   string `json:"risk_level"`
	Prediction  string `json:"prediction"`
	ThreatCount int    `json:"threat_count"`
}

// nightFactor elevates the estimate for submissions scored between 23:00 and
// 06:00 local time.
const nightFactor = 1.3

// EstimateProbability derives an incident probability from the elevated
// analyses attached to one submission. hour is the caller's local hour of
// day, injected so tests can pin the nighttime elevation.
func EstimateProbability(analyses []Analysis, hour int) Probability {
	if len(analyses) == 0 {
		return Probability{
			Probability: 0,
			RiskLevel:   "minimal",
			Prediction:  "No threat signals",
		}
	}

	base := float64(len(analyses)) * 20
	if hour < 6 || hour > 23 {
		base *= nightFactor
	}

	p := int(math.Round(base))
	if p > 100 {
		p = 100
	}

	risk := "moderate"
	switch {
	case p >= 80:
		risk = "extreme"
	case p >= 60:
		risk = "high"
	}

	prediction := "Low risk"
	if p >= 60 {
		prediction = "HIGH CRIME PROBABILITY"
	}

	return Probability{
		Probability: p,
		RiskLevel:   risk,
		Prediction:  prediction,
		ThreatCount: len(analyses),
	}
}
