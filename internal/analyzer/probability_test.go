package analyzer_test

import (
	"testing"

	"github.com/citywatch/sentinel/internal/analyzer"
)

func TestEstimateProbability_noThreats(t *testing.T) {
	p := analyzer.EstimateProbability(nil, 12)

	if p.Probability != 0 {
		t.Errorf("probability = %d, want 0", p.Probability)
	}
	if p.RiskLevel != "minimal" {
		t.Errorf("risk_level = %q, want minimal", p.RiskLevel)
	}
	if p.Prediction != "No threat signals" {
		t.Errorf("prediction = %q", p.Prediction)
	}
}

func TestEstimateProbability_daytime(t *testing.T) {
	one := make([]analyzer.Analysis, 1)
	p := analyzer.EstimateProbability(one, 12)

	if p.Probability != 20 {
		t.Errorf("probability = %d, want 20", p.Probability)
	}
	if p.RiskLevel != "moderate" {
		t.Errorf("risk_level = %q, want moderate", p.RiskLevel)
	}
	if p.Prediction != "Low risk" {
		t.Errorf("prediction = %q, want \"Low risk\"", p.Prediction)
	}
	if p.ThreatCount != 1 {
		t.Errorf("threat_count = %d, want 1", p.ThreatCount)
	}
}

func TestEstimateProbability_nighttimeElevation(t *testing.T) {
	three := make([]analyzer.Analysis, 3)

	day := analyzer.EstimateProbability(three, 12)
	if day.Probability != 60 || day.RiskLevel != "high" {
		t.Errorf("daytime: probability = %d risk = %q, want 60/high", day.Probability, day.RiskLevel)
	}
	if day.Prediction != "HIGH CRIME PROBABILITY" {
		t.Errorf("prediction = %q", day.Prediction)
	}

	night := analyzer.EstimateProbability(three, 2)
	if night.Probability != 78 {
		t.Errorf("nighttime: probability = %d, want 78 (60 * 1.3)", night.Probability)
	}
	if night.RiskLevel != "high" {
		t.Errorf("nighttime risk = %q, want high", night.RiskLevel)
	}
}

func TestEstimateProbability_saturates(t *testing.T) {
	six := make([]analyzer.Analysis, 6)
	p := analyzer.EstimateProbability(six, 12)

	if p.Probability != 100 {
		t.Errorf("probability = %d, want capped 100", p.Probability)
	}
	if p.RiskLevel != "extreme" {
		t.Errorf("risk_level = %q, want extreme", p.RiskLevel)
	}

	nightFour := analyzer.EstimateProbability(make([]analyzer.Analysis, 4), 3)
	if nightFour.Probability != 100 {
		t.Errorf("probability = %d, want 100 (80 * 1.3 capped)", nightFour.Probability)
	}
}
