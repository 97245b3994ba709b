package threatlog_test

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/threatlog"
)

func elevatedAnalysis(score int) analyzer.Analysis {
	return analyzer.Analysis{
		Score: score,
		Level: analyzer.LevelFor(score),
	}
}

func TestAppend_assignsIDAndOrder(t *testing.T) {
	l := threatlog.New()

	r1 := l.Append("api", "first", elevatedAnalysis(70))
	r2 := l.Append("api", "second", elevatedAnalysis(90))

	idFormat := regexp.MustCompile(`^N-[A-Z0-9]{8}$`)
	if !idFormat.MatchString(r1.ID) {
		t.Errorf("id %q does not match N-XXXXXXXX", r1.ID)
	}
	if !idFormat.MatchString(r2.ID) {
		t.Errorf("id %q does not match N-XXXXXXXX", r2.ID)
	}

	snap := l.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snap))
	}
	if snap[0].Text != "first" || snap[1].Text != "second" {
		t.Error("records out of append order")
	}
}

func TestAppend_deterministicWithSeededIDSource(t *testing.T) {
	l1 := threatlog.New(threatlog.WithIDSource(threatlog.NewSeededIDSource(42)))
	l2 := threatlog.New(threatlog.WithIDSource(threatlog.NewSeededIDSource(42)))

	for i := 0; i < 5; i++ {
		a := l1.Append("api", "t", elevatedAnalysis(70))
		b := l2.Append("api", "t", elevatedAnalysis(70))
		if a.ID != b.ID {
			t.Fatalf("append %d: ids diverge: %q vs %q", i, a.ID, b.ID)
		}
	}
}

func TestAppend_stampsClock(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	l := threatlog.New(threatlog.WithClock(func() time.Time { return fixed }))

	rec := l.Append("api", "t", elevatedAnalysis(70))
	if !rec.DetectedAt.Equal(fixed) {
		t.Errorf("detected_at = %v, want %v", rec.DetectedAt, fixed)
	}
}

func TestRecent(t *testing.T) {
	l := threatlog.New()
	for i := 0; i < 25; i++ {
		l.Append("api", fmt.Sprintf("text %d", i), elevatedAnalysis(70))
	}

	recent := l.Recent(20)
	if len(recent) != 20 {
		t.Fatalf("recent length = %d, want 20", len(recent))
	}
	if recent[0].Text != "text 5" {
		t.Errorf("first recent = %q, want \"text 5\"", recent[0].Text)
	}
	if recent[19].Text != "text 24" {
		t.Errorf("last recent = %q, want \"text 24\"", recent[19].Text)
	}

	if got := l.Recent(100); len(got) != 25 {
		t.Errorf("Recent beyond length = %d records, want 25", len(got))
	}
}

func TestRetention_maxEntries(t *testing.T) {
	l := threatlog.New(threatlog.WithRetention(threatlog.MaxEntries(10)))
	for i := 0; i < 30; i++ {
		l.Append("api", fmt.Sprintf("text %d", i), elevatedAnalysis(70))
	}

	if l.Len() != 10 {
		t.Fatalf("len = %d, want 10", l.Len())
	}
	if snap := l.Snapshot(); snap[0].Text != "text 20" {
		t.Errorf("oldest retained = %q, want \"text 20\"", snap[0].Text)
	}
}

func TestAppend_concurrent(t *testing.T) {
	l := threatlog.New()

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				rec := l.Append("stress", "text", elevatedAnalysis(85))
				if rec.ID == "" || rec.Analysis.Level != analyzer.LevelCritical {
					t.Error("partially constructed record observed")
				}
			}
		}(g)
	}
	wg.Wait()

	if got := l.Len(); got != goroutines*perGoroutine {
		t.Errorf("final length = %d, want %d (no lost appends)", got, goroutines*perGoroutine)
	}
	for _, rec := range l.Snapshot() {
		if rec == nil || rec.ID == "" {
			t.Fatal("snapshot contains incomplete record")
		}
	}
}
