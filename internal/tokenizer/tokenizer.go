// Package tokenizer splits a transition phrase into normalized word tokens.
//
// Tokens are lowercase, keep accents and apostrophes, and lose every other
// punctuation mark. No stemming or accent folding is applied, so "déjà"
// and "deja" are distinct tokens.
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Apostrophe is the only punctuation mark kept inside tokens (l', d', qu').
const Apostrophe = '\''

// typographic apostrophe, common in French copy
const rightSingleQuote = '’'

// Tokenize lowercases phrase, strips every rune that is not a word
// character, whitespace or apostrophe, and splits the rest on whitespace.
// An empty or punctuation-only phrase yields no tokens.
func Tokenize(phrase string) []string {
	if phrase == "" {
		return nil
	}

	// Compose first so a decomposed accent stays attached to its letter.
	text := norm.NFC.String(phrase)
	// Caser is stateful; one per call keeps Tokenize safe for concurrent use.
	text = cases.Lower(language.French).String(text)
	text = strings.Map(keepRune, text)

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Join rebuilds a phrase from tokens. Tokenize(Join(t)) returns t.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

func keepRune(r rune) rune {
	switch {
	case r == rightSingleQuote:
		return Apostrophe
	case isWordRune(r), r == Apostrophe, unicode.IsSpace(r):
		return r
	default:
		return -1
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}
