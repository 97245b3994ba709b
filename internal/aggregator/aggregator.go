// Package aggregator derives summary views from the threat log: level-bucketed
// statistics and a coarse citywide incident prediction. Both are pure
// functions over a log snapshot, recomputed on demand.
package aggregator

import (
	"time"

	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// Statistics summarizes the current log contents. ByLevel always reports all
// four levels, zero-filled.
type Statistics struct {
	TotalThreats int                    `json:"total_threats"`
	ByLevel      map[analyzer.Level]int `json:"by_level"`
	BySource     map[string]int         `json:"by_source"`
	LastUpdated  time.Time              `json:"last_updated"`
}

// Prediction is the citywide incident estimate derived from the log.
// Hotspots are static placeholders, not geolocation output.
type Prediction struct {
	CitywideRisk        string    `json:"citywide_risk"`
	PredictedCrimeCount int       `json:"predicted_crime_count"`
	Hotspots            []string  `json:"hotspots"`
	Confidence          string    `json:"confidence"`
	ReportTime          time.Time `json:"report_time"`
}

// Summarize counts every record by stored threat level and source.
func Summarize(records []*threatlog.Record, now time.Time) Statistics {
	byLevel := make(map[analyzer.Level]int, len(analyzer.Levels))
	for _, lvl := range analyzer.Levels {
		byLevel[lvl] = 0
	}
	bySource := map[string]int{}
	for _, rec := range records {
		byLevel[rec.Analysis.Level]++
		bySource[rec.Source]++
	}
	return Statistics{
		TotalThreats: len(records),
		ByLevel:      byLevel,
		BySource:     bySource,
		LastUpdated:  now.UTC(),
	}
}

// Predict derives the citywide estimate from the high/critical records in the
// log. By construction the log only holds elevated records, but the filter is
// applied to whatever the log contains.
func Predict(records []*threatlog.Record, now time.Time) Prediction {
	riskCount := 0
	for _, rec := range records {
		if rec.Analysis.Level.Elevated() {
			riskCount++
		}
	}

	p := Prediction{
		CitywideRisk:        "low",
		PredictedCrimeCount: riskCount * 3,
		Hotspots:            []string{},
		Confidence:          "medium",
		ReportTime:          now.UTC(),
	}
	if riskCount > 0 {
		p.CitywideRisk = "elevated"
		p.Hotspots = []string{"downtown", "transit hub"}
	}
	if riskCount > 2 {
		p.Confidence = "high"
	}
	return p
}
