// Package threatlog provides the in-memory, append-only record of elevated
// submissions. The log is the only shared mutable state in the system:
// appends are serialized under a write lock and readers observe consistent
// snapshots.
package threatlog

import (
	"sync"
	"time"

	"github.com/citywatch/sentinel/internal/analyzer"
)

// Record is one logged submission. Records are immutable once appended; there
// is no update or delete path.
type Record struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Text       string            `json:"text"`
	Analysis   analyzer.Analysis `json:"analysis"`
	DetectedAt time.Time         `json:"detected_at"`
}

// Log is a thread-safe append-only sequence of Records.
type Log struct {
	mu        sync.RWMutex
	records   []*Record
	ids       IDSource
	retention RetentionPolicy
	now       func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithIDSource overrides the identifier source, enabling deterministic tests.
func WithIDSource(ids IDSource) Option {
	return func(l *Log) { l.ids = ids }
}

// WithRetention installs a retention policy applied after every append. The
// default keeps every record for the process lifetime.
func WithRetention(p RetentionPolicy) Option {
	return func(l *Log) { l.retention = p }
}

// WithClock overrides the timestamp source for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates an empty Log.
func New(opts ...Option) *Log {
	l := &Log{
		ids: NewRandIDSource(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append assigns a fresh identifier, stamps the detection time, and appends a
// new Record. The append is atomic with respect to concurrent readers and
// other appenders.
func (l *Log) Append(source, text string, a analyzer.Analysis) *Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := &Record{
		ID:         l.ids.NextID(),
		Source:     source,
		Text:       text,
		Analysis:   a,
		DetectedAt: l.now().UTC(),
	}
	l.records = append(l.records, rec)
	if l.retention != nil {
		l.records = l.retention.Apply(l.records)
	}
	return rec
}

// Snapshot returns a point-in-time copy of the log in append order.
func (l *Log) Snapshot() []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Record, len(l.records))
	copy(out, l.records)
	return out
}

// Recent returns the most recent n records in append order.
func (l *Log) Recent(n int) []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.records) {
		n = len(l.records)
	}
	out := make([]*Record, n)
	copy(out, l.records[len(l.records)-n:])
	return out
}

// Len returns the current log length.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
