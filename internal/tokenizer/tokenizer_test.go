package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   \t\n",
			expected: nil,
		},
		{
			name:     "punctuation only",
			input:    ",.;:!?…",
			expected: nil,
		},
		{
			name:     "lowercase and strip comma",
			input:    "Par ailleurs,",
			expected: []string{"par", "ailleurs"},
		},
		{
			name:     "keeps apostrophes",
			input:    "D'autre part, l'auteur",
			expected: []string{"d'autre", "part", "l'auteur"},
		},
		{
			name:     "typographic apostrophe folded",
			input:    "L’homme qu’on voit",
			expected: []string{"l'homme", "qu'on", "voit"},
		},
		{
			name:     "accents preserved",
			input:    "À côté, Déjà ÉTÉ",
			expected: []string{"à", "côté", "déjà", "été"},
		},
		{
			name:     "decomposed accent composed",
			input:    "De\u0301ja\u0300",
			expected: []string{"déjà"},
		},
		{
			name:     "non-breaking spaces split tokens",
			input:    "Enfin\u00a0: voici\u202fla fin",
			expected: []string{"enfin", "voici", "la", "fin"},
		},
		{
			name:     "hyphen removed joins parts",
			input:    "Peut-être",
			expected: []string{"peutêtre"},
		},
		{
			name:     "digits and underscore kept",
			input:    "Étape 2_bis.",
			expected: []string{"étape", "2_bis"},
		},
		{
			name:     "guillemets stripped",
			input:    "« Enfin » dit-il",
			expected: []string{"enfin", "ditil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	phrases := []string{
		"Par exemple, le chat",
		"Enfin, une note",
		"D’ailleurs — et c’est important — l'idée",
		"  Pour   conclure !!! ",
		"Ça va, À BIENTÔT",
		"",
	}

	for _, p := range phrases {
		first := Tokenize(p)
		second := Tokenize(Join(first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize not idempotent for %q: %q then %q", p, first, second)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"par", "ailleurs"}); got != "par ailleurs" {
		t.Errorf("Join() = %q, want %q", got, "par ailleurs")
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q, want empty", got)
	}
}

func TestTokenize_NoTokensIsNil(t *testing.T) {
	for _, phrase := range []string{"", "   \t\n", ",.;:!?…", " — "} {
		if got := Tokenize(phrase); got != nil {
			t.Errorf("Tokenize(%q) = %#v, want nil", phrase, got)
		}
	}
}
