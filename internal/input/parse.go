// Package input turns user-supplied text into a typed batch of transition
// groups. Shape errors are reported here, before any validation runs, so a
// caller can reject the whole batch with a single message.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/valpere/transcheck/internal"
)

// Parse decodes a JSON list of lists of strings. No partial batch is
// returned on error.
func Parse(data []byte) (internal.Batch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &Error{Kind: ErrSyntax, Err: fmt.Errorf("empty input")}
	}

	var top any
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, &Error{Kind: ErrSyntax, Err: fmt.Errorf("JSON: %w", err)}
	}

	groups, ok := top.([]any)
	if !ok {
		return nil, &Error{Kind: ErrShape, Err: fmt.Errorf("top level is %s", typeName(top))}
	}

	batch := make(internal.Batch, 0, len(groups))
	for gi, g := range groups {
		phrases, ok := g.([]any)
		if !ok {
			return nil, &Error{Kind: ErrShape, Group: gi + 1, Err: fmt.Errorf("group is %s", typeName(g))}
		}

		group := make(internal.Group, 0, len(phrases))
		for pi, p := range phrases {
			s, ok := p.(string)
			if !ok {
				return nil, &Error{Kind: ErrElement, Group: gi + 1, Phrase: pi + 1, Err: fmt.Errorf("got %s", typeName(p))}
			}
			group = append(group, s)
		}
		batch = append(batch, group)
	}

	return batch, nil
}

// ParseText cleans raw text pasted from an LLM and parses it as JSON.
func ParseText(raw string) (internal.Batch, error) {
	return Parse([]byte(Clean(raw)))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "a list"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
