// Package validator checks a transition group against the repetition and
// terminal-word rules.
package validator

import (
	"slices"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/policy"
	"github.com/valpere/transcheck/internal/tokenizer"
)

const (
	KindRepetition     = "repetition"
	KindEnfinMisplaced = "enfin_misplaced"
)

// Violations is the violation set of one group. A zero value means the group
// passed both checks; each field is omitted from JSON when it did not occur.
type Violations struct {
	// Repetition lists each repeated content word once, in order of first
	// appearance.
	Repetition     []string `json:"repetition,omitempty" yaml:"repetition,omitempty"`
	EnfinMisplaced bool     `json:"enfin_misplaced,omitempty" yaml:"enfin_misplaced,omitempty"`
}

func (v Violations) Empty() bool {
	return len(v.Repetition) == 0 && !v.EnfinMisplaced
}

// Kinds returns the violation kinds present, in a stable order.
func (v Violations) Kinds() []string {
	var kinds []string
	if len(v.Repetition) > 0 {
		kinds = append(kinds, KindRepetition)
	}
	if v.EnfinMisplaced {
		kinds = append(kinds, KindEnfinMisplaced)
	}
	return kinds
}

// Validator is read-only after New and safe for concurrent use.
type Validator struct {
	policy policy.Policy
}

func New(p policy.Policy) *Validator {
	return &Validator{policy: p}
}

func (v *Validator) Policy() policy.Policy {
	return v.policy
}

// CheckGroup runs both checks over the tokenized phrases of group.
//
// Groups of any length are accepted. A single-phrase group has no non-last
// phrase, so the terminal-word check never fires on it.
func (v *Validator) CheckGroup(group internal.Group) Violations {
	counts := make(map[string]int)
	var order []string
	misplaced := false

	last := len(group) - 1
	for i, phrase := range group {
		tokens := tokenizer.Tokenize(phrase)

		if i != last && slices.Contains(tokens, v.policy.TerminalWord) {
			misplaced = true
		}

		for j, tok := range tokens {
			if !v.policy.Counts(j, tok) {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	var result Violations
	for _, tok := range order {
		if counts[tok] > 1 {
			result.Repetition = append(result.Repetition, tok)
		}
	}
	result.EnfinMisplaced = misplaced
	return result
}

// ContentTokens returns the tokens of phrase that enter the repetition count.
func (v *Validator) ContentTokens(phrase string) []string {
	var out []string
	for j, tok := range tokenizer.Tokenize(phrase) {
		if v.policy.Counts(j, tok) {
			out = append(out, tok)
		}
	}
	return out
}
