package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/valpere/transcheck/internal"
)

type CSVOptions struct {
	// Header skips the first record.
	Header bool
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// ParseCSV reads one transition group per record. Trailing empty cells are
// dropped so groups of different sizes can share a file; a record of empty
// cells becomes an empty group and keeps its output number.
func ParseCSV(r io.Reader, opts CSVOptions) (internal.Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &Error{Kind: ErrSyntax, Err: fmt.Errorf("CSV: %w", err)}
	}

	if opts.Header && len(records) > 0 {
		records = records[1:]
	}

	batch := make(internal.Batch, 0, len(records))
	for _, rec := range records {
		end := len(rec)
		for end > 0 && strings.TrimSpace(rec[end-1]) == "" {
			end--
		}
		group := make(internal.Group, end)
		copy(group, rec[:end])
		batch = append(batch, group)
	}
	return batch, nil
}
