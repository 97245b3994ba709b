package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/citywatch/sentinel/internal/aggregator"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// NoopNotifier logs alerts to zap instead of delivering them.
// Use when no Telegram credentials are configured.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a NoopNotifier backed by the given logger.
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

// ThreatAlert logs the alert and returns nil.
func (n *NoopNotifier) ThreatAlert(_ context.Context, rec *threatlog.Record) error {
	n.logger.Info("threat alert (noop, not sent)",
		zap.String("id", rec.ID),
		zap.String("source", rec.Source),
		zap.String("level", string(rec.Analysis.Level)),
		zap.Int("score", rec.Analysis.Score),
	)
	return nil
}

// SummaryReport logs the report and returns nil.
func (n *NoopNotifier) SummaryReport(_ context.Context, stats aggregator.Statistics) error {
	n.logger.Info("summary report (noop, not sent)",
		zap.Int("total_threats", stats.TotalThreats),
	)
	return nil
}
