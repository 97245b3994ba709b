// Package analyzer implements the text scoring engine. Analyze is a pure
// function over the static lexicon and pattern set: it never fails, never
// touches I/O, and is safe to call from any number of goroutines.
package analyzer

import (
	"strings"
	"time"

	"github.com/citywatch/sentinel/internal/lexicon"
)

// Level is the ordinal threat classification derived from a score.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Levels lists all classifications from most to least severe.
var Levels = []Level{LevelCritical, LevelHigh, LevelMedium, LevelLow}

// LevelFor maps a 0–100 score to its classification:
//
//	score ≥ 80 → critical
//	score ≥ 60 → high
//	score ≥ 40 → medium
//	otherwise  → low
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Elevated reports whether the level is high or critical, the threshold at
// which submissions are recorded to the threat log.
func (l Level) Elevated() bool {
	return l == LevelHigh || l == LevelCritical
}

// KeywordMatch is one piece of keyword evidence in an analysis.
type KeywordMatch struct {
	Keyword  string `json:"keyword"`
	Weight   int    `json:"score"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// PatternMatch is one piece of contextual pattern evidence.
type PatternMatch struct {
	Type  lexicon.PatternType `json:"type"`
	Match string              `json:"match"`
}

// Analysis is the immutable result of scoring one text.
type Analysis struct {
	TextPreview      string         `json:"text_preview"`
	Score            int            `json:"threat_score"`
	Level            Level          `json:"threat_level"`
	FoundThreats     []KeywordMatch `json:"found_threats"`
	DetectedPatterns []PatternMatch `json:"detected_patterns"`
	AnalyzedAt       time.Time      `json:"analyzed_at"`
}

const (
	// maxEvidence caps found_threats, in discovery order.
	maxEvidence = 10

	// previewRunes is the text_preview length before the truncation marker.
	previewRunes = 150

	// scriptBonusCap caps the CJK script bonus contribution.
	scriptBonusCap = 50

	// scriptMatchWeight is the weight attributed to per-character CJK
	// pseudo-matches.
	scriptMatchWeight = 80
)

// Analyzer scores free text against the lexicon and pattern set.
type Analyzer struct {
	lex   *lexicon.Set
	rules []lexicon.PatternRule
	now   func() time.Time
}

// New creates an Analyzer over the given lexicon and the canonical pattern set.
func New(lex *lexicon.Set) *Analyzer {
	return &Analyzer{
		lex:   lex,
		rules: lexicon.Rules(),
		now:   time.Now,
	}
}

// SetClock overrides the timestamp source. Intended for tests; the score
// itself is time-independent.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}

// Analyze scores text and returns a well-formed Analysis for any input,
// including the empty string.
func (a *Analyzer) Analyze(text string) Analysis {
	lowered := strings.ToLower(text)

	total := 0
	found := []KeywordMatch{}

	// Keyword pass. The matcher reports which entries occur as substrings;
	// evidence keeps lexicon order. Overlapping keywords each count: "kill"
	// inside "going to kill" contributes both weights.
	matched := a.lex.Scan(lowered)
	for i, e := range a.lex.Entries() {
		if !matched[i] {
			continue
		}
		total += e.Weight
		found = append(found, KeywordMatch{
			Keyword:  e.Keyword,
			Weight:   e.Weight,
			Category: a.lex.CategoryOf(e.Keyword),
			Language: keywordLanguage(e.Keyword),
		})
	}

	// Pattern pass, against the original text. Each rule contributes its
	// bonus exactly once; the first match is kept as evidence.
	patterns := []PatternMatch{}
	for _, r := range a.rules {
		loc := r.Expr.FindStringIndex(text)
		if loc == nil {
			continue
		}
		total += r.Bonus
		patterns = append(patterns, PatternMatch{Type: r.Type, Match: text[loc[0]:loc[1]]})
	}

	// Script bonus: CJK presence is treated as a risk signal, 10 points per
	// character capped at 50, with up to 10 per-character pseudo-matches.
	cjk := 0
	for _, r := range text {
		if !isCJK(r) {
			continue
		}
		cjk++
		if cjk <= maxEvidence {
			found = append(found, KeywordMatch{
				Keyword:  string(r),
				Weight:   scriptMatchWeight,
				Category: lexicon.CategoryGeneral,
				Language: "zh",
			})
		}
	}
	if cjk > 0 {
		bonus := cjk * 10
		if bonus > scriptBonusCap {
			bonus = scriptBonusCap
		}
		total += bonus
	}

	if total > 100 {
		total = 100
	}
	if len(found) > maxEvidence {
		found = found[:maxEvidence]
	}

	return Analysis{
		TextPreview:      preview(text),
		Score:            total,
		Level:            LevelFor(total),
		FoundThreats:     found,
		DetectedPatterns: patterns,
		AnalyzedAt:       a.now().UTC(),
	}
}

// preview returns the first 150 runes of the input, with a truncation marker
// if the input was longer.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// isCJK reports whether r falls in the CJK Unified Ideographs block.
func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// keywordLanguage tags a lexicon keyword as zh if it contains any CJK rune,
// else en.
func keywordLanguage(keyword string) string {
	for _, r := range keyword {
		if isCJK(r) {
			return "zh"
		}
	}
	return "en"
}
