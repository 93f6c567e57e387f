// Package render writes a summary report as JSON, YAML or styled text.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valpere/transcheck/internal/report"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatText}
}

type Options struct {
	// Color enables ANSI styling in text output.
	Color bool
	// OnlyViolations hides clean outputs from the text details.
	OnlyViolations bool
}

// Write renders rep in the named format.
func Write(w io.Writer, format string, rep report.Report, opts Options) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return JSON(w, rep)
	case FormatYAML, "yml":
		return YAML(w, rep)
	case FormatText:
		return Text(w, rep, opts)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// Named pairs a report with the source it was built from.
type Named struct {
	Source string        `json:"source" yaml:"source"`
	Report report.Report `json:"report" yaml:"report"`
}

// WriteAll renders the reports of several sources. JSON and YAML emit one
// list; text writes one section per source.
func WriteAll(w io.Writer, format string, reports []Named, opts Options) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return encodeJSON(w, reports)
	case FormatYAML, "yml":
		return encodeYAML(w, reports)
	case FormatText:
		for i, n := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", n.Source)
			if err := Text(w, n.Report, opts); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// JSON writes rep indented, with the exact report keys.
func JSON(w io.Writer, rep report.Report) error {
	return encodeJSON(w, rep)
}

func YAML(w io.Writer, rep report.Report) error {
	return encodeYAML(w, rep)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
