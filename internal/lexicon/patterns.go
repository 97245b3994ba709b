package lexicon

import "regexp"

// PatternType classifies what a contextual pattern rule is evidence of.
type PatternType string

const (
	PatternUrgency   PatternType = "urgency"
	PatternTargeted  PatternType = "targeted"
	PatternPlanning  PatternType = "planning"
	PatternEmotional PatternType = "emotional"
)

// PatternRule is a contextual regex rule. Rules are tested against the
// original (not lowercased) text; each matching rule contributes its Bonus
// once, with the first match kept as evidence.
type PatternRule struct {
	Expr  *regexp.Regexp
	Type  PatternType
	Bonus int
}

// rules is the canonical pattern set, in evaluation order. Malformed
// expressions panic at init, which is the intended startup failure mode for
// fixed configuration.
var rules = []PatternRule{
	// Urgency: intent to act immediately or on a named day.
	{regexp.MustCompile(`right now`), PatternUrgency, 15},
	{regexp.MustCompile(`tonight`), PatternUrgency, 15},
	{regexp.MustCompile(`today.*going to`), PatternUrgency, 15},
	{regexp.MustCompile(`tomorrow.*will`), PatternUrgency, 15},
	{regexp.MustCompile(`this weekend`), PatternUrgency, 15},

	// Targeted: a specific person is named as the object.
	{regexp.MustCompile(`my (boss|colleague|teacher|classmate|neighbor|ex)`), PatternTargeted, 20},
	{regexp.MustCompile(`that (guy|girl|person|man|woman)`), PatternTargeted, 20},
	{regexp.MustCompile(`they.*deserve`), PatternTargeted, 20},

	// Planning: preparation behaviour.
	{regexp.MustCompile(`going to buy`), PatternPlanning, 25},
	{regexp.MustCompile(`just ordered`), PatternPlanning, 25},
	{regexp.MustCompile(`already have`), PatternPlanning, 25},
	{regexp.MustCompile(`waiting for`), PatternPlanning, 25},

	// Emotional: despair or fixation language.
	{regexp.MustCompile(`can.?t take (it|this) anymore`), PatternEmotional, 10},
	{regexp.MustCompile(`nothing left to lose`), PatternEmotional, 10},
	{regexp.MustCompile(`(hate|despise) (them|him|her|everyone)`), PatternEmotional, 10},
}

// Rules returns the pattern set in evaluation order. Callers must not mutate
// the returned slice.
func Rules() []PatternRule {
	return rules
}
