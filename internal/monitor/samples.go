package monitor

import "context"

// samplePost is a canned feed item used by ScanSamples.
type samplePost struct {
	Source string
	Title  string
	Body   string
}

// samplePosts stand in for real feed ingestion, which this system does not
// do. They exercise the full check/record/alert path from the CLI.
var samplePosts = []samplePost{
	{
		Source: "reddit/legaladvice",
		Title:  "My boss is making my life hell, I want to hurt him",
		Body:   "I've been thinking about revenge lately",
	},
	{
		Source: "reddit/relationships",
		Title:  "Had a terrible fight with my ex",
		Body:   "She deserves everything bad to happen to her",
	},
	{
		Source: "reddit/confessions",
		Title:  "Just need to vent about work today",
		Body:   "Stressful day but I'll be fine",
	},
}

// ScanSamples runs the canned demo feed through CheckText and returns the
// records it produced. Demo only; there is no live ingestion.
func (m *Monitor) ScanSamples(ctx context.Context) []*ScanHit {
	var hits []*ScanHit
	for _, post := range samplePosts {
		text := post.Title + " " + post.Body
		a, rec := m.CheckText(ctx, post.Source, text)
		hits = append(hits, &ScanHit{
			Source:   post.Source,
			Level:    string(a.Level),
			Score:    a.Score,
			Recorded: rec != nil,
		})
	}
	return hits
}

// ScanHit is the outcome of scanning one sample post.
type ScanHit struct {
	Source   string `json:"source"`
	Level    string `json:"level"`
	Score    int    `json:"score"`
	Recorded bool   `json:"recorded"`
}
