package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/input"
)

func TestParseInput(t *testing.T) {
	want := internal.Batch{{"Par ailleurs,", "Enfin,"}}

	tests := []struct {
		name   string
		data   string
		format string
	}{
		{name: "json", data: `[["Par ailleurs,", "Enfin,"]]`, format: "json"},
		{name: "default format", data: `[["Par ailleurs,", "Enfin,"]]`, format: ""},
		{name: "fenced json", data: "```json\n[[\"Par ailleurs,\", \"Enfin,\"]]\n```", format: "json"},
		{name: "csv", data: "\"Par ailleurs,\",\"Enfin,\"\n", format: "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInput([]byte(tt.data), tt.format, false)
			if err != nil {
				t.Fatalf("parseInput failed: %v", err)
			}
			if len(got) != 1 || len(got[0]) != 2 || got[0][0] != want[0][0] || got[0][1] != want[0][1] {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}

	if _, err := parseInput([]byte("[]"), "xml", false); err == nil {
		t.Error("expected error for unknown input format")
	}
}

func TestBuildSources_Files(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "a.json")
	csvPath := filepath.Join(dir, "b.csv")
	if err := os.WriteFile(jsonPath, []byte(`[["Ensuite,", "Enfin,"]]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("Ensuite,Enfin\nPuis,Pour finir\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sources := buildSources([]string{jsonPath, csvPath}, nil, "json", false, false)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != jsonPath || sources[1].Name != csvPath {
		t.Errorf("unexpected source names: %s, %s", sources[0].Name, sources[1].Name)
	}

	first, err := sources[0].Load(context.Background())
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if len(first) != 1 {
		t.Errorf("json: expected 1 group, got %d", len(first))
	}

	second, err := sources[1].Load(context.Background())
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("csv: expected 2 groups, got %d", len(second))
	}
}

func TestBuildSources_Stdin(t *testing.T) {
	sources := buildSources(nil, strings.NewReader(`[["a", 1]]`), "json", false, false)
	if len(sources) != 1 || sources[0].Name != "stdin" {
		t.Fatalf("expected one stdin source, got %+v", sources)
	}

	_, err := sources[0].Load(context.Background())
	if !errors.Is(err, input.ErrElement) {
		t.Errorf("expected ErrElement, got %v", err)
	}
}

func TestBatchCheck_Strict(t *testing.T) {
	batch := internal.Batch{{"Enfin,"}}

	if err := batchCheck(2, 4, false, false)("x", batch); err != nil {
		t.Errorf("advisory mode should not fail: %v", err)
	}
	if err := batchCheck(2, 4, true, false)("x", batch); !errors.Is(err, input.ErrSize) {
		t.Errorf("expected ErrSize in strict mode, got %v", err)
	}
}

func TestContainsPath(t *testing.T) {
	if !containsPath([]string{"a.json", "./b.json"}, "b.json") {
		t.Error("expected b.json to match ./b.json")
	}
	if containsPath([]string{"a.json"}, "c.json") {
		t.Error("did not expect c.json to match")
	}
}

func TestTokenizeCmd(t *testing.T) {
	chdir(t, t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"tokenize", "Par exemple, dans le jardin"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"content: par exemple jardin", "no (stopword)", "policy: refined"} {
		if !strings.Contains(out, want) {
			t.Errorf("tokenize output missing %q:\n%s", want, out)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
