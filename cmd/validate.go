/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/detector"
	"github.com/valpere/transcheck/internal/input"
	"github.com/valpere/transcheck/internal/render"
	"github.com/valpere/transcheck/internal/runner"
)

var (
	validateInputs          []string
	validateOutput          string
	validateFormat          string
	validateInputFormat     string
	validateCSVHeader       bool
	validatePreset          string
	validateStrictSize      bool
	validateCheckLanguage   bool
	validateSave            bool
	validateFailOnViolation bool
	validateOnlyViolations  bool
	validateColor           bool
	validateTimeout         time.Duration
)

// errViolations makes --fail-on-violation exit non-zero.
var errViolations = errors.New("violations found")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate batches of transition groups",
	Long: `Validate one or more batches of French transition groups and print a
summary report.

Each input is a JSON list of lists of phrases, for example:

  [["Par ailleurs,", "En outre,", "Enfin,"], ["Ensuite,", "Pour finir,"]]

or a CSV file with one group per row. Pasted generator output wrapped in
code fences or a short preamble is accepted. Reads stdin when no -i is given.
Several -i files are validated concurrently.

Policies:
  refined   first token of a phrase always counts (default)
  uniform   stopwords are ignored at every position`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateOutput != "" && containsPath(validateInputs, validateOutput) {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		v, err := buildValidator(policyConfig(cmd))
		if err != nil {
			return err
		}

		inputFormat := cfg.Input.Format
		if cmd.Flags().Changed("input-format") {
			inputFormat = validateInputFormat
		}
		csvHeader := cfg.Input.CSVHeader || validateCSVHeader
		strict := cfg.Input.StrictSize || validateStrictSize
		checkLanguage := cfg.Language.Check || validateCheckLanguage
		save := cfg.Store.Save || validateSave

		sources := buildSources(validateInputs, cmd.InOrStdin(), inputFormat, cmd.Flags().Changed("input-format"), csvHeader)

		r := runner.New(v, runner.Config{
			Timeout: validateTimeout,
			Check:   batchCheck(cfg.Input.MinGroupSize, cfg.Input.MaxGroupSize, strict, checkLanguage),
		})
		res := r.Execute(cmd.Context(), sources)

		if len(sources) == 1 && res.Failed == 1 {
			return res.Results[0].Err
		}
		for _, sr := range res.Results {
			if sr.Err != nil {
				slog.Error("input rejected", "source", sr.Name, "error", sr.Err)
			} else {
				slog.Debug("input validated", "source", sr.Name, "outputs", sr.Report.TotalOutputs, "latency", sr.Latency)
			}
		}

		named := make([]render.Named, 0, len(res.Results))
		violations := 0
		for _, sr := range res.Results {
			if sr.Err != nil {
				continue
			}
			named = append(named, render.Named{Source: sr.Name, Report: sr.Report})
			violations += sr.Report.OutputsWithViolations
		}

		if save && len(named) > 0 {
			if err := saveRuns(cmd.Context(), v.Policy().Name, named); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if validateOutput != "" {
			if err := os.MkdirAll(filepath.Dir(validateOutput), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(validateOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		opts := render.Options{Color: validateColor, OnlyViolations: validateOnlyViolations}
		if len(sources) == 1 {
			err = render.Write(out, validateFormat, named[0].Report, opts)
		} else {
			err = render.WriteAll(out, validateFormat, named, opts)
		}
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if res.Failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", res.Failed, len(sources))
		}
		if validateFailOnViolation && violations > 0 {
			return fmt.Errorf("%w in %d output(s)", errViolations, violations)
		}
		return nil
	},
}

// buildSources turns the -i paths into runner sources. No paths means one
// source reading from stdin. With explicit set to false, a .csv extension
// selects CSV parsing regardless of the configured format.
func buildSources(paths []string, stdin io.Reader, format string, explicit, csvHeader bool) []runner.Source {
	if len(paths) == 0 {
		return []runner.Source{{
			Name: "stdin",
			Load: func(ctx context.Context) (internal.Batch, error) {
				data, err := io.ReadAll(stdin)
				if err != nil {
					return nil, fmt.Errorf("failed to read stdin: %w", err)
				}
				return parseInput(data, format, csvHeader)
			},
		}}
	}

	sources := make([]runner.Source, 0, len(paths))
	for _, path := range paths {
		path := path // per-iteration copy; module targets go 1.21 loop semantics
		f := format
		if !explicit && strings.EqualFold(filepath.Ext(path), ".csv") {
			f = "csv"
		}
		sources = append(sources, runner.Source{
			Name: path,
			Load: func(ctx context.Context) (internal.Batch, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, fmt.Errorf("failed to read input file: %w", err)
				}
				return parseInput(data, f, csvHeader)
			},
		})
	}
	return sources
}

func parseInput(data []byte, format string, csvHeader bool) (internal.Batch, error) {
	switch strings.ToLower(format) {
	case "csv":
		return input.ParseCSV(bytes.NewReader(data), input.CSVOptions{Header: csvHeader})
	case "json", "":
		return input.ParseText(string(data))
	default:
		return nil, fmt.Errorf("unknown input format %q (want json or csv)", format)
	}
}

// batchCheck logs group size and language advisories. In strict mode a size
// advisory rejects the batch.
func batchCheck(minSize, maxSize int, strict, checkLanguage bool) func(string, internal.Batch) error {
	var det *detector.Detector
	if checkLanguage {
		det = detector.New()
	}

	return func(name string, batch internal.Batch) error {
		if strict {
			if err := input.EnforceSizes(batch, minSize, maxSize); err != nil {
				return err
			}
		} else {
			for _, a := range input.CheckSizes(batch, minSize, maxSize) {
				slog.Warn("transition group size out of range",
					"source", name, "output", a.OutputID, "size", a.Size, "min", minSize, "max", maxSize)
			}
		}

		if det != nil {
			for _, m := range det.CheckBatch(batch) {
				slog.Warn("output does not look French", "source", name, "output", m.OutputID, "language", m.Language, "error", m.Err)
			}
		}
		return nil
	}
}

func saveRuns(ctx context.Context, policyName string, reports []render.Named) error {
	db, err := openStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, n := range reports {
		run := internal.ValidationRun{
			ID:        uuid.New().String(),
			Source:    n.Source,
			Policy:    policyName,
			Timestamp: time.Now(),
		}
		if err := db.SaveRun(ctx, run, n.Report); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("saved run", "id", run.ID, "source", n.Source)
	}
	return nil
}

func containsPath(paths []string, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringArrayVarP(&validateInputs, "input", "i", nil, "Input file (repeatable; default: stdin)")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "Write the report to this file instead of stdout")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", render.FormatJSON, "Report format: json, yaml or text")
	validateCmd.Flags().StringVar(&validateInputFormat, "input-format", "json", "Input format: json or csv (default from input.format)")
	validateCmd.Flags().BoolVar(&validateCSVHeader, "csv-header", false, "Skip the first CSV row")
	validateCmd.Flags().StringVarP(&validatePreset, "preset", "p", "", "Counting policy: refined or uniform (default from policy.preset)")
	validateCmd.Flags().BoolVar(&validateStrictSize, "strict-size", false, "Reject batches with groups outside the configured size range")
	validateCmd.Flags().BoolVar(&validateCheckLanguage, "check-language", false, "Warn about outputs that do not look French")
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "Save the run to the history database")
	validateCmd.Flags().BoolVar(&validateFailOnViolation, "fail-on-violation", false, "Exit non-zero when any output has violations")
	validateCmd.Flags().BoolVar(&validateOnlyViolations, "only-violations", false, "Text format: hide outputs without violations")
	validateCmd.Flags().BoolVar(&validateColor, "color", false, "Text format: colorize output")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", 30*time.Second, "Per-input timeout (0 disables)")
}
