// Package lexicon holds the static threat vocabulary: the weighted keyword
// table, the category index used for attribution, and the contextual regex
// pattern set. The tables are fixed configuration, validated once at startup
// and shared read-only across all scorer invocations.
package lexicon

import (
	"fmt"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Entry is a single weighted keyword or phrase. Latin-script keywords match
// case-insensitively as substrings; Chinese keywords match as literal
// substrings of the original text.
type Entry struct {
	Keyword string
	Weight  int
}

// CategoryGeneral is the attribution fallback for keywords that belong to no
// named category.
const CategoryGeneral = "general_threat"

// entries is the canonical lexicon, in scoring/evidence order. Weights are
// threat scores in [0,100].
var entries = []Entry{
	// Severe violence
	{"kill", 90},
	{"murder", 95},
	{"shoot", 85},
	{"attack", 80},
	{"massacre", 100},
	{"terrorist", 95},
	{"bomb", 90},
	{"explosion", 85},
	{"rape", 95},
	{"stab", 85},
	{"assault", 75},
	{"abuse", 70},

	// Threats and intimidation
	{"threaten", 70},
	{"hurt", 65},
	{"destroy", 70},
	{"revenge", 75},
	{"payback", 70},
	{"eliminate", 80},
	{"wipe out", 85},
	{"end it all", 90},
	{"going to kill", 95},
	{"want them dead", 95},

	// Weapons
	{"gun", 60},
	{"knife", 55},
	{"weapon", 65},
	{"arsenal", 75},
	{"ammunition", 65},
	{"firearm", 70},
	{"rifle", 60},

	// Self-harm
	{"suicide", 85},
	{"want to die", 85},

	// Cyber
	{"hack", 50},
	{"breach", 55},
	{"ddos", 60},
	{"malware", 55},
	{"ransomware", 65},
	{"phishing", 45},
	{"cyberattack", 70},

	// Property crime
	{"steal", 50},
	{"rob", 65},
	{"burglary", 60},
	{"vandalism", 45},
	{"fraud", 55},
	{"scam", 45},
	{"extortion", 70},

	// Harassment
	{"harass", 55},
	{"stalk", 60},
	{"bullying", 50},

	// Emerging / AI-enabled threats
	{"deepfake", 50},
	{"voice clone", 55},
	{"swatting", 75},
	{"doxx", 60},

	// Chinese terms
	{"杀", 90},
	{"杀人", 95},
	{"炸弹", 90},
	{"爆炸", 85},
	{"袭击", 80},
	{"绑架", 85},
	{"自杀", 85},
	{"报复", 75},
	{"枪", 60},
	{"刀", 55},
}

// categories maps a category name to its member keywords. A keyword belongs
// to at most one category; anything unlisted attributes to CategoryGeneral.
var categories = map[string][]string{
	"physical_violence": {
		"kill", "murder", "shoot", "attack", "stab", "assault", "abuse",
		"hurt", "going to kill", "want them dead", "杀", "杀人", "袭击", "绑架",
	},
	"terrorism": {
		"terrorist", "bomb", "explosion", "massacre", "炸弹", "爆炸",
	},
	"self_harm": {
		"suicide", "want to die", "end it all", "自杀",
	},
	"harassment": {
		"threaten", "harass", "stalk", "bullying", "doxx", "swatting",
	},
	"property_crime": {
		"steal", "rob", "burglary", "vandalism", "fraud", "scam", "extortion",
	},
	"cyber_threat": {
		"hack", "breach", "ddos", "malware", "ransomware", "phishing", "cyberattack",
	},
	"emerging_threat": {
		"deepfake", "voice clone",
	},
}

// Set is the validated, immutable lexicon: the ordered keyword table, the
// reverse category index, and an Aho-Corasick matcher built over the
// lowercased keywords for single-pass scanning.
type Set struct {
	entries    []Entry
	categoryOf map[string]string
	matcher    *ahocorasick.Matcher
}

// New builds and validates the canonical lexicon Set. Duplicate keywords,
// out-of-range weights, and category members absent from the keyword table
// are construction failures and abort startup.
func New() (*Set, error) {
	return newSet(entries, categories)
}

func newSet(table []Entry, cats map[string][]string) (*Set, error) {
	seen := make(map[string]bool, len(table))
	patterns := make([]string, len(table))
	for i, e := range table {
		if e.Keyword == "" {
			return nil, fmt.Errorf("lexicon entry %d has empty keyword", i)
		}
		if e.Weight < 0 || e.Weight > 100 {
			return nil, fmt.Errorf("lexicon keyword %q has weight %d outside [0,100]", e.Keyword, e.Weight)
		}
		if seen[e.Keyword] {
			return nil, fmt.Errorf("duplicate lexicon keyword %q", e.Keyword)
		}
		seen[e.Keyword] = true
		patterns[i] = strings.ToLower(e.Keyword)
	}

	categoryOf := make(map[string]string)
	for name, members := range cats {
		for _, kw := range members {
			if !seen[kw] {
				return nil, fmt.Errorf("category %q lists keyword %q not present in lexicon", name, kw)
			}
			if prev, ok := categoryOf[kw]; ok {
				return nil, fmt.Errorf("keyword %q belongs to both %q and %q", kw, prev, name)
			}
			categoryOf[kw] = name
		}
	}

	return &Set{
		entries:    table,
		categoryOf: categoryOf,
		matcher:    ahocorasick.NewStringMatcher(patterns),
	}, nil
}

// Entries returns the keyword table in canonical order. Callers must not
// mutate the returned slice.
func (s *Set) Entries() []Entry {
	return s.entries
}

// CategoryOf returns the category a keyword attributes to, falling back to
// CategoryGeneral.
func (s *Set) CategoryOf(keyword string) string {
	if c, ok := s.categoryOf[keyword]; ok {
		return c
	}
	return CategoryGeneral
}

// Scan runs the Aho-Corasick matcher over the lowercased text and returns the
// set of entry indices whose keyword occurs as a substring. Safe for
// concurrent use.
func (s *Set) Scan(lowered string) map[int]bool {
	hits := s.matcher.MatchThreadSafe([]byte(lowered))
	matched := make(map[int]bool, len(hits))
	for _, h := range hits {
		matched[h] = true
	}
	return matched
}
