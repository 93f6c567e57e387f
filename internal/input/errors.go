package input

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is.
var (
	ErrSyntax  = errors.New("malformed input")
	ErrShape   = errors.New("input must be a list of transition groups (list of lists)")
	ErrElement = errors.New("transition phrases must be strings")
	ErrSize    = errors.New("transition group size out of range")
)

// Error describes why a batch was rejected at the input boundary. Group and
// Phrase are 1-based positions; zero means not applicable.
type Error struct {
	Kind   error
	Group  int
	Phrase int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Group > 0 && e.Phrase > 0:
		msg = fmt.Sprintf("%s (group %d, phrase %d)", msg, e.Group, e.Phrase)
	case e.Group > 0:
		msg = fmt.Sprintf("%s (group %d)", msg, e.Group)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func sizeErr(size, min, max int) error {
	return fmt.Errorf("got %d phrases, want %d to %d", size, min, max)
}
