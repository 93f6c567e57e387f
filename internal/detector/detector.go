// Package detector guards against batches that are not written in French.
// Detection is advisory: short or ambiguous texts always pass.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/transcheck/internal"
)

// MinLength is the minimum rune count required to attempt detection.
// Shorter texts produce unreliable results and are accepted.
const MinLength = 20

// candidate languages for transition copy; narrower than FromAllLanguages
// to keep the detector small
var candidates = []lingua.Language{
	lingua.French,
	lingua.English,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.German,
	lingua.Dutch,
}

// Detector is expensive to build; reuse the instance. It is safe for
// concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// IsFrench reports whether text appears to be French. Short and ambiguous
// texts pass; a mismatch returns an error naming the detected language.
func (d *Detector) IsFrench(text string) (bool, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinLength {
		return true, nil
	}

	lang, ok := d.Detect(text)
	if !ok {
		return true, nil
	}
	if lang != lingua.French {
		return false, fmt.Errorf("expected French but detected %s", lang)
	}
	return true, nil
}

// Mismatch is a group detected as another language. OutputID is 1-based;
// Language is the ISO 639-1 code of the detected language.
type Mismatch struct {
	OutputID int
	Language string
	Err      error
}

// CheckBatch runs IsFrench over each group's phrases joined together.
func (d *Detector) CheckBatch(batch internal.Batch) []Mismatch {
	var out []Mismatch
	for i, g := range batch {
		text := strings.Join(g, " ")
		if ok, err := d.IsFrench(text); !ok {
			code, _ := d.DetectISO(text)
			out = append(out, Mismatch{OutputID: i + 1, Language: code, Err: err})
		}
	}
	return out
}
