// Package alert delivers notifications when elevated threats are recorded.
package alert

import (
	"context"

	"github.com/citywatch/sentinel/internal/aggregator"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// Notifier delivers threat alerts and periodic summary reports.
type Notifier interface {
	ThreatAlert(ctx context.Context, rec *threatlog.Record) error
	SummaryReport(ctx context.Context, stats aggregator.Statistics) error
}
