// Package policy holds the content-word counting rules used by the group
// validator: which tokens are stopwords, whether the first token of a phrase
// always counts, and which word is reserved for the terminal phrase.
package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/valpere/transcheck/internal/tokenizer"
)

const (
	// PresetRefined excludes stopwords mid-phrase but always counts the
	// first word of each phrase.
	PresetRefined = "refined"
	// PresetUniform excludes stopwords at every position.
	PresetUniform = "uniform"

	DefaultPreset       = PresetRefined
	DefaultTerminalWord = "enfin"
)

var ErrUnknownPreset = errors.New("unknown policy preset")

var refinedStopwords = []string{
	"le", "la", "les", "un", "une", "de", "du", "des",
	"en", "à", "par", "pour", "avec", "dans", "sur",
	"et", "que", "si", "ce", "ces", "au", "aux", "l'", "d'", "qu'",
	"se", "s'", "y", "on", "mais", "ou", "donc", "or", "ni", "car",
}

var uniformStopwords = []string{
	"le", "la", "les", "de", "des", "du", "un", "une",
	"en", "à", "par", "pour", "avec", "dans", "et", "que",
	"ce", "qui", "où", "mais", "ou", "donc", "se", "on",
}

// Policy is immutable after construction and safe to share between
// goroutines.
type Policy struct {
	Name                   string
	FirstTokenAlwaysCounts bool
	TerminalWord           string

	stopwords map[string]struct{}
}

// New builds a policy from an explicit stopword list. Words are normalized
// with the tokenizer so "L'" and "l’" both match the token "l'".
// An empty terminalWord falls back to DefaultTerminalWord.
func New(name string, stopwords []string, firstTokenAlwaysCounts bool, terminalWord string) Policy {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		for _, tok := range tokenizer.Tokenize(w) {
			set[tok] = struct{}{}
		}
	}

	terminal := DefaultTerminalWord
	if toks := tokenizer.Tokenize(terminalWord); len(toks) > 0 {
		terminal = toks[0]
	}

	return Policy{
		Name:                   name,
		FirstTokenAlwaysCounts: firstTokenAlwaysCounts,
		TerminalWord:           terminal,
		stopwords:              set,
	}
}

// Preset returns one of the built-in policies.
func Preset(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetRefined:
		return New(PresetRefined, refinedStopwords, true, DefaultTerminalWord), nil
	case PresetUniform:
		return New(PresetUniform, uniformStopwords, false, DefaultTerminalWord), nil
	default:
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// Default returns the refined preset.
func Default() Policy {
	p, _ := Preset(DefaultPreset)
	return p
}

// Presets lists the built-in preset names.
func Presets() []string {
	return []string{PresetRefined, PresetUniform}
}

// PresetWords returns the stopword list of a built-in preset.
func PresetWords(name string) ([]string, error) {
	p, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return p.Words(), nil
}

// WithStopwords returns a copy of p with extra words added to its list.
func (p Policy) WithStopwords(extra ...string) Policy {
	words := append(p.Words(), extra...)
	return New(p.Name, words, p.FirstTokenAlwaysCounts, p.TerminalWord)
}

func (p Policy) IsStopword(token string) bool {
	_, ok := p.stopwords[token]
	return ok
}

// Counts reports whether the token at position index of a phrase enters the
// repetition multiset.
func (p Policy) Counts(index int, token string) bool {
	if index == 0 && p.FirstTokenAlwaysCounts {
		return true
	}
	return !p.IsStopword(token)
}

// Words returns the stopword list sorted ascending.
func (p Policy) Words() []string {
	words := make([]string, 0, len(p.stopwords))
	for w := range p.stopwords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
