// Package client provides a Go SDK for the Sentinel threat analysis API:
// submitting text for scoring and reading the statistics, threat log, and
// prediction views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Analysis mirrors the analysis object returned by POST /api/v1/analyze.
type Analysis struct {
	TextPreview      string         `json:"text_preview"`
	ThreatScore      int            `json:"threat_score"`
	ThreatLevel      string         `json:"threat_level"`
	FoundThreats     []KeywordMatch `json:"found_threats"`
	DetectedPatterns []PatternMatch `json:"detected_patterns"`
	AnalyzedAt       time.Time      `json:"analyzed_at"`
}

// KeywordMatch is one keyword evidence entry.
type KeywordMatch struct {
	Keyword  string `json:"keyword"`
	Score    int    `json:"score"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// PatternMatch is one contextual pattern evidence entry.
type PatternMatch struct {
	Type  string `json:"type"`
	Match string `json:"match"`
}

// Probability is the single-submission incident estimate.
type Probability struct {
	Probability int    `json:"probability"`
	RiskLevel   string `json:"risk_level"`
	Prediction  string `json:"prediction"`
	ThreatCount int    `json:"threat_count"`
}

// AnalyzeResult is the full response of POST /api/v1/analyze.
type AnalyzeResult struct {
	ID         string      `json:"id"`
	Number     string      `json:"number,omitempty"`
	Analysis   Analysis    `json:"analysis"`
	Prediction Probability `json:"prediction"`
}

// Statistics is the response of GET /api/v1/statistics.
type Statistics struct {
	TotalThreats int            `json:"total_threats"`
	ByLevel      map[string]int `json:"by_level"`
	BySource     map[string]int `json:"by_source"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// ThreatRecord is one entry of the threat log.
type ThreatRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Text       string    `json:"text"`
	Analysis   Analysis  `json:"analysis"`
	DetectedAt time.Time `json:"detected_at"`
}

// ThreatsResult is the response of GET /api/v1/threats.
type ThreatsResult struct {
	Threats []ThreatRecord `json:"threats"`
	Total   int            `json:"total"`
}

// Prediction is the response of GET /api/v1/prediction.
type Prediction struct {
	CitywideRisk        string    `json:"citywide_risk"`
	PredictedCrimeCount int       `json:"predicted_crime_count"`
	Hotspots            []string  `json:"hotspots"`
	Confidence          string    `json:"confidence"`
	ReportTime          time.Time `json:"report_time"`
}

// Client is the Sentinel SDK entry point.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the Sentinel API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze submits text for scoring. source may be empty; the server defaults
// it to "api".
func (c *Client) Analyze(ctx context.Context, text, source string) (*AnalyzeResult, error) {
	var out AnalyzeResult
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze", map[string]string{
		"text":   text,
		"source": source,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics fetches the current threat statistics.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var out Statistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Threats fetches the most recent threat records.
func (c *Client) Threats(ctx context.Context) (*ThreatsResult, error) {
	var out ThreatsResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/threats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Prediction fetches the citywide incident prediction.
func (c *Client) Prediction(ctx context.Context) (*Prediction, error) {
	var out Prediction
	if err := c.do(ctx, http.MethodGet, "/api/v1/prediction", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
