package alert_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/citywatch/sentinel/internal/aggregator"
	"github.com/citywatch/sentinel/internal/alert"
	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/threatlog"
)

func TestTelegramThreatAlert(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := alert.NewTelegramNotifier("test-token", "12345", srv.URL)
	rec := &threatlog.Record{
		ID:     "N-ABC12345",
		Source: "api",
		Text:   "I'm going to kill my boss tomorrow",
		Analysis: analyzer.Analysis{
			Score: 100,
			Level: analyzer.LevelCritical,
		},
		DetectedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	if err := n.ThreatAlert(context.Background(), rec); err != nil {
		t.Fatalf("ThreatAlert: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path = %q, want /bottest-token/sendMessage", gotPath)
	}
	if gotPayload["chat_id"] != "12345" {
		t.Errorf("chat_id = %q", gotPayload["chat_id"])
	}
	for _, want := range []string{"N-ABC12345", "critical", "100/100", "api"} {
		if !strings.Contains(gotPayload["text"], want) {
			t.Errorf("message missing %q:\n%s", want, gotPayload["text"])
		}
	}
}

func TestTelegramThreatAlert_truncatesTextByRunes(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := alert.NewTelegramNotifier("tok", "1", srv.URL)
	rec := &threatlog.Record{
		ID:   "N-00000000",
		Text: strings.Repeat("杀", 250),
	}

	if err := n.ThreatAlert(context.Background(), rec); err != nil {
		t.Fatalf("ThreatAlert: %v", err)
	}

	msg := gotPayload["text"]
	if !utf8.ValidString(msg) {
		t.Fatal("message contains invalid UTF-8 after truncation")
	}
	if got := strings.Count(msg, "杀"); got != 200 {
		t.Errorf("excerpt has %d runes, want 200", got)
	}
}

func TestTelegramThreatAlert_serverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := alert.NewTelegramNotifier("tok", "1", srv.URL)
	err := n.ThreatAlert(context.Background(), &threatlog.Record{ID: "N-00000000"})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want status code mentioned", err)
	}
}

func TestTelegramSummaryReport(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := alert.NewTelegramNotifier("tok", "1", srv.URL)
	stats := aggregator.Statistics{
		TotalThreats: 4,
		ByLevel: map[analyzer.Level]int{
			analyzer.LevelCritical: 1,
			analyzer.LevelHigh:     3,
			analyzer.LevelMedium:   0,
			analyzer.LevelLow:      0,
		},
	}

	if err := n.SummaryReport(context.Background(), stats); err != nil {
		t.Fatalf("SummaryReport: %v", err)
	}
	for _, want := range []string{"Total threats: 4", "Critical: 1", "High: 3"} {
		if !strings.Contains(gotPayload["text"], want) {
			t.Errorf("report missing %q:\n%s", want, gotPayload["text"])
		}
	}
}

func TestTelegramContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := alert.NewTelegramNotifier("tok", "1", srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := n.ThreatAlert(ctx, &threatlog.Record{ID: "N-00000000"}); err == nil {
		t.Fatal("expected error when context deadline passes")
	}
}
