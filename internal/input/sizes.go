package input

import (
	"github.com/valpere/transcheck/internal"
)

const (
	DefaultMinGroupSize = 2
	DefaultMaxGroupSize = 4
)

// SizeAdvisory flags a group whose length is outside the nominal range.
// OutputID is 1-based.
type SizeAdvisory struct {
	OutputID int
	Size     int
}

// CheckSizes reports groups whose length is outside [min, max]. A
// non-positive bound disables that side of the check.
func CheckSizes(batch internal.Batch, min, max int) []SizeAdvisory {
	var out []SizeAdvisory
	for i, g := range batch {
		n := len(g)
		if (min > 0 && n < min) || (max > 0 && n > max) {
			out = append(out, SizeAdvisory{OutputID: i + 1, Size: n})
		}
	}
	return out
}

// EnforceSizes turns the first size advisory into an error.
func EnforceSizes(batch internal.Batch, min, max int) error {
	adv := CheckSizes(batch, min, max)
	if len(adv) == 0 {
		return nil
	}
	return &Error{Kind: ErrSize, Group: adv[0].OutputID, Err: sizeErr(adv[0].Size, min, max)}
}
