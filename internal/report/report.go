// Package report aggregates per-group violations over a batch into a
// summary report.
package report

import (
	"slices"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/validator"
)

type Report struct {
	TotalOutputs          int      `json:"total_outputs" yaml:"total_outputs"`
	OutputsWithViolations int      `json:"outputs_with_violations" yaml:"outputs_with_violations"`
	ViolationsSummary     Summary  `json:"violations_summary" yaml:"violations_summary"`
	Details               []Detail `json:"details" yaml:"details"`
}

type Summary struct {
	Repetition     RepetitionSummary `json:"repetition" yaml:"repetition"`
	EnfinMisplaced EnfinSummary      `json:"enfin_misplaced" yaml:"enfin_misplaced"`
}

type RepetitionSummary struct {
	Count           int      `json:"count" yaml:"count"`
	AffectedOutputs []int    `json:"affected_outputs" yaml:"affected_outputs"`
	ViolatedWords   []string `json:"violated_words" yaml:"violated_words"`
}

type EnfinSummary struct {
	Count           int   `json:"count" yaml:"count"`
	AffectedOutputs []int `json:"affected_outputs" yaml:"affected_outputs"`
}

// Detail is the per-group record. OutputID is the 1-based batch position.
type Detail struct {
	OutputID    int                  `json:"output_id" yaml:"output_id"`
	Transitions []string             `json:"transitions" yaml:"transitions"`
	Violations  validator.Violations `json:"violations" yaml:"violations"`
}

// Empty returns a zeroed report whose lists are non-nil, so it serializes
// with [] rather than null.
func Empty() Report {
	return Report{
		ViolationsSummary: Summary{
			Repetition: RepetitionSummary{
				AffectedOutputs: []int{},
				ViolatedWords:   []string{},
			},
			EnfinMisplaced: EnfinSummary{
				AffectedOutputs: []int{},
			},
		},
		Details: []Detail{},
	}
}

// Build validates every group of batch and folds the results into a report.
// It never mutates batch or any shared state, so concurrent calls on
// different batches are independent.
func Build(v *validator.Validator, batch internal.Batch) Report {
	acc := newAccumulator()
	for i, group := range batch {
		acc = acc.add(i+1, group, v.CheckGroup(group))
	}
	return acc.report(len(batch))
}

// Violated returns the details that carry at least one violation.
func (r Report) Violated() []Detail {
	var out []Detail
	for _, d := range r.Details {
		if !d.Violations.Empty() {
			out = append(out, d)
		}
	}
	return out
}

func (r Report) HasViolations() bool {
	return r.OutputsWithViolations > 0
}

type accumulator struct {
	rep   Report
	words map[string]struct{}
}

func newAccumulator() accumulator {
	return accumulator{rep: Empty(), words: make(map[string]struct{})}
}

func (a accumulator) add(id int, group internal.Group, violations validator.Violations) accumulator {
	transitions := slices.Clone([]string(group))
	if transitions == nil {
		transitions = []string{}
	}
	a.rep.Details = append(a.rep.Details, Detail{
		OutputID:    id,
		Transitions: transitions,
		Violations:  violations,
	})

	if violations.Empty() {
		return a
	}
	a.rep.OutputsWithViolations++

	if len(violations.Repetition) > 0 {
		rep := &a.rep.ViolationsSummary.Repetition
		rep.Count++
		rep.AffectedOutputs = append(rep.AffectedOutputs, id)
		for _, w := range violations.Repetition {
			a.words[w] = struct{}{}
		}
	}
	if violations.EnfinMisplaced {
		enfin := &a.rep.ViolationsSummary.EnfinMisplaced
		enfin.Count++
		enfin.AffectedOutputs = append(enfin.AffectedOutputs, id)
	}
	return a
}

func (a accumulator) report(total int) Report {
	words := make([]string, 0, len(a.words))
	for w := range a.words {
		words = append(words, w)
	}
	slices.Sort(words)

	r := a.rep
	r.TotalOutputs = total
	r.ViolationsSummary.Repetition.ViolatedWords = words
	return r
}
