package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/citywatch/sentinel/internal/aggregator"
	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/threatlog"
)

// DefaultTelegramAPI is the production Telegram Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramNotifier delivers alerts via the Telegram Bot API sendMessage
// method.
type TelegramNotifier struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramNotifier creates a TelegramNotifier. baseURL is overridable for
// tests; pass DefaultTelegramAPI in production.
func NewTelegramNotifier(token, chatID, baseURL string) *TelegramNotifier {
	return &TelegramNotifier{
		token:      token,
		chatID:     chatID,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ThreatAlert sends a formatted alert for one recorded threat.
func (t *TelegramNotifier) ThreatAlert(ctx context.Context, rec *threatlog.Record) error {
	text := rec.Text
	if runes := []rune(text); len(runes) > 200 {
		text = string(runes[:200])
	}
	msg := fmt.Sprintf(
		"SENTINEL THREAT ALERT\n\nLevel: %s\nScore: %d/100\nSource: %s\nID: %s\nTime: %s\n\n%s",
		string(rec.Analysis.Level),
		rec.Analysis.Score,
		rec.Source,
		rec.ID,
		rec.DetectedAt.Format(time.RFC3339),
		text,
	)
	return t.send(ctx, msg)
}

// SummaryReport sends the level-bucketed statistics summary.
func (t *TelegramNotifier) SummaryReport(ctx context.Context, stats aggregator.Statistics) error {
	msg := fmt.Sprintf(
		"SENTINEL DAILY REPORT\n\nTotal threats: %d\nCritical: %d\nHigh: %d\nMedium: %d\nLow: %d",
		stats.TotalThreats,
		stats.ByLevel[analyzer.LevelCritical],
		stats.ByLevel[analyzer.LevelHigh],
		stats.ByLevel[analyzer.LevelMedium],
		stats.ByLevel[analyzer.LevelLow],
	)
	return t.send(ctx, msg)
}

func (t *TelegramNotifier) send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned %d", resp.StatusCode)
	}
	return nil
}
