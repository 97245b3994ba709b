package lexicon

import (
	"strings"
	"testing"
)

func TestNewSet_rejectsDuplicateKeyword(t *testing.T) {
	table := []Entry{
		{"kill", 90},
		{"kill", 80},
	}
	_, err := newSet(table, nil)
	if err == nil {
		t.Fatal("expected error for duplicate keyword")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v, want duplicate keyword mentioned", err)
	}
}

func TestNewSet_rejectsOutOfRangeWeight(t *testing.T) {
	tests := []struct {
		name  string
		table []Entry
	}{
		{"above 100", []Entry{{"kill", 101}}},
		{"negative", []Entry{{"kill", -1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newSet(tc.table, nil); err == nil {
				t.Errorf("expected error for weight %d", tc.table[0].Weight)
			}
		})
	}
}

func TestNewSet_rejectsEmptyKeyword(t *testing.T) {
	if _, err := newSet([]Entry{{"", 50}}, nil); err == nil {
		t.Fatal("expected error for empty keyword")
	}
}

func TestNewSet_rejectsUnknownCategoryMember(t *testing.T) {
	table := []Entry{{"kill", 90}}
	cats := map[string][]string{
		"physical_violence": {"kill", "murder"},
	}
	_, err := newSet(table, cats)
	if err == nil {
		t.Fatal("expected error for category member absent from keyword table")
	}
	if !strings.Contains(err.Error(), "murder") {
		t.Errorf("error = %v, want offending keyword named", err)
	}
}

func TestNewSet_rejectsKeywordInTwoCategories(t *testing.T) {
	table := []Entry{{"kill", 90}}
	cats := map[string][]string{
		"physical_violence": {"kill"},
		"terrorism":         {"kill"},
	}
	if _, err := newSet(table, cats); err == nil {
		t.Fatal("expected error for keyword in two categories")
	}
}
