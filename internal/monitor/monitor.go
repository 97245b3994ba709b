// Package monitor is the service layer tying the scorer, the threat log, and
// alerting together. It owns the decision to record a submission (high or
// critical only) and to dispatch alerts.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/citywatch/sentinel/internal/aggregator"
	"github.com/citywatch/sentinel/internal/alert"
	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// MetricsRecordFunc is an optional callback for recording analysis outcomes.
type MetricsRecordFunc func(level analyzer.Level, recorded bool)

// AlertMetricsFunc is an optional callback for recording alert delivery
// outcomes.
type AlertMetricsFunc func(success bool)

// Monitor analyzes submissions and maintains the threat log.
type Monitor struct {
	analyzer     *analyzer.Analyzer
	log          *threatlog.Log
	notifier     alert.Notifier
	logger       *zap.Logger
	now          func() time.Time
	onAnalysis   MetricsRecordFunc
	onAlert      AlertMetricsFunc
	alertTimeout time.Duration
}

// New creates a Monitor. notifier may be nil to disable alerting entirely.
func New(an *analyzer.Analyzer, log *threatlog.Log, notifier alert.Notifier, logger *zap.Logger) *Monitor {
	return &Monitor{
		analyzer:     an,
		log:          log,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
		alertTimeout: 10 * time.Second,
	}
}

// SetMetricsRecorder configures the analysis metrics callback.
func (m *Monitor) SetMetricsRecorder(fn MetricsRecordFunc) {
	m.onAnalysis = fn
}

// SetAlertMetricsRecorder configures the alert metrics callback.
func (m *Monitor) SetAlertMetricsRecorder(fn AlertMetricsFunc) {
	m.onAlert = fn
}

// SetClock overrides the time source for tests.
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// Analyze scores text without touching the log. Used by batch analysis,
// which never records.
func (m *Monitor) Analyze(text string) analyzer.Analysis {
	return m.analyzer.Analyze(text)
}

// CheckText scores a submission and, when the result is high or critical,
// appends it to the threat log and dispatches an alert. The returned record
// is nil for low and medium results. Alert delivery is fire-and-forget and
// never fails the caller.
func (m *Monitor) CheckText(ctx context.Context, source, text string) (analyzer.Analysis, *threatlog.Record) {
	a := m.analyzer.Analyze(text)

	recorded := a.Level.Elevated()
	if m.onAnalysis != nil {
		m.onAnalysis(a.Level, recorded)
	}
	if !recorded {
		return a, nil
	}

	rec := m.log.Append(source, text, a)
	m.logger.Warn("threat recorded",
		zap.String("id", rec.ID),
		zap.String("source", source),
		zap.String("level", string(a.Level)),
		zap.Int("score", a.Score),
	)

	if m.notifier != nil {
		go m.dispatchAlert(rec)
	}
	return a, rec
}

func (m *Monitor) dispatchAlert(rec *threatlog.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), m.alertTimeout)
	defer cancel()

	err := m.notifier.ThreatAlert(ctx, rec)
	if m.onAlert != nil {
		m.onAlert(err == nil)
	}
	if err != nil {
		m.logger.Error("alert delivery failed",
			zap.String("id", rec.ID),
			zap.Error(err),
		)
	}
}

// Statistics summarizes the current log contents.
func (m *Monitor) Statistics() aggregator.Statistics {
	return aggregator.Summarize(m.log.Snapshot(), m.now())
}

// Prediction derives the citywide incident estimate from the current log.
func (m *Monitor) Prediction() aggregator.Prediction {
	return aggregator.Predict(m.log.Snapshot(), m.now())
}

// Recent returns the most recent n records.
func (m *Monitor) Recent(n int) []*threatlog.Record {
	return m.log.Recent(n)
}

// Len returns the current log length.
func (m *Monitor) Len() int {
	return m.log.Len()
}

// Report is the full threat report: statistics, the most recent records, and
// the prediction.
type Report struct {
	ReportTime    time.Time            `json:"report_time"`
	Statistics    aggregator.Statistics `json:"statistics"`
	RecentThreats []*threatlog.Record  `json:"recent_threats"`
	Prediction    aggregator.Prediction `json:"prediction"`
}

// ExportReport assembles the full threat report from the current log.
func (m *Monitor) ExportReport() Report {
	now := m.now()
	return Report{
		ReportTime:    now.UTC(),
		Statistics:    aggregator.Summarize(m.log.Snapshot(), now),
		RecentThreats: m.log.Recent(10),
		Prediction:    aggregator.Predict(m.log.Snapshot(), now),
	}
}
