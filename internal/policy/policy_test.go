package policy

import (
	"errors"
	"slices"
	"testing"
)

func TestPreset(t *testing.T) {
	tests := []struct {
		name           string
		preset         string
		wantName       string
		wantFirstCount bool
		wantErr        bool
	}{
		{name: "empty selects refined", preset: "", wantName: PresetRefined, wantFirstCount: true},
		{name: "refined", preset: "refined", wantName: PresetRefined, wantFirstCount: true},
		{name: "case insensitive", preset: " Uniform ", wantName: PresetUniform, wantFirstCount: false},
		{name: "unknown", preset: "strict", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Preset(tt.preset)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPreset) {
					t.Fatalf("expected ErrUnknownPreset, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.FirstTokenAlwaysCounts != tt.wantFirstCount {
				t.Errorf("FirstTokenAlwaysCounts = %v, want %v", p.FirstTokenAlwaysCounts, tt.wantFirstCount)
			}
			if p.TerminalWord != DefaultTerminalWord {
				t.Errorf("TerminalWord = %q, want %q", p.TerminalWord, DefaultTerminalWord)
			}
		})
	}
}

func TestPresetWords_Differ(t *testing.T) {
	refined, err := PresetWords(PresetRefined)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uniform, err := PresetWords(PresetUniform)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Contains(refined, "sur") || slices.Contains(uniform, "sur") {
		t.Error("expected \"sur\" only in the refined list")
	}
	if !slices.Contains(uniform, "qui") || slices.Contains(refined, "qui") {
		t.Error("expected \"qui\" only in the uniform list")
	}
	if !slices.IsSorted(refined) {
		t.Error("expected Words() to be sorted")
	}
}

func TestPolicy_Counts(t *testing.T) {
	refined := Default()
	uniform, _ := Preset(PresetUniform)

	tests := []struct {
		name   string
		p      Policy
		index  int
		token  string
		counts bool
	}{
		{"refined first stopword counts", refined, 0, "par", true},
		{"refined later stopword skipped", refined, 1, "par", false},
		{"refined later content word counts", refined, 2, "exemple", true},
		{"uniform first stopword skipped", uniform, 0, "par", false},
		{"uniform first content word counts", uniform, 0, "puis", true},
		{"apostrophe stopword", refined, 1, "l'", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Counts(tt.index, tt.token); got != tt.counts {
				t.Errorf("Counts(%d, %q) = %v, want %v", tt.index, tt.token, got, tt.counts)
			}
		})
	}
}

func TestNew_NormalizesWords(t *testing.T) {
	p := New("custom", []string{"L’", "Également", " ainsi "}, true, "")

	for _, w := range []string{"l'", "également", "ainsi"} {
		if !p.IsStopword(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	if p.TerminalWord != DefaultTerminalWord {
		t.Errorf("TerminalWord = %q, want default %q", p.TerminalWord, DefaultTerminalWord)
	}
}

func TestWithStopwords(t *testing.T) {
	base := Default()
	extended := base.WithStopwords("ainsi")

	if base.IsStopword("ainsi") {
		t.Error("WithStopwords must not modify the receiver")
	}
	if !extended.IsStopword("ainsi") || !extended.IsStopword("le") {
		t.Error("expected extended policy to keep base words and add the new one")
	}
	if extended.Name != base.Name || extended.FirstTokenAlwaysCounts != base.FirstTokenAlwaysCounts {
		t.Error("expected extended policy to keep name and first-token rule")
	}
}
