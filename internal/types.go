package internal

import "time"

// Group is an ordered set of candidate transition phrases for the same joint.
// The last phrase is the terminal position.
type Group []string

// Batch is an ordered sequence of groups, reported with 1-based output ids.
type Batch []Group

type ValidationRun struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Policy    string    `json:"policy"`
	Timestamp time.Time `json:"timestamp"`
}
