// Package runner validates several independent sources concurrently, one
// batch per source, and collects their reports in input order.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/report"
	"github.com/valpere/transcheck/internal/validator"
)

// Source is a named batch loader. Load runs inside the source's goroutine.
type Source struct {
	Name string
	Load func(ctx context.Context) (internal.Batch, error)
}

type Config struct {
	// Timeout bounds each source; zero means no per-source timeout.
	Timeout time.Duration
	// Check, when set, inspects a loaded batch before validation. An error
	// rejects that source without validating it.
	Check func(name string, batch internal.Batch) error
}

// SourceResult is the outcome of one source. Exactly one of Report and Err
// is meaningful.
type SourceResult struct {
	Name    string
	Batch   internal.Batch
	Report  report.Report
	Err     error
	Latency time.Duration
}

type Result struct {
	Results   []SourceResult
	Succeeded int
	Failed    int
}

type Runner struct {
	validator *validator.Validator
	config    Config
}

func New(v *validator.Validator, config Config) *Runner {
	return &Runner{
		validator: v,
		config:    config,
	}
}

func (r *Runner) Execute(ctx context.Context, sources []Source) *Result {
	result := &Result{
		Results: make([]SourceResult, len(sources)),
	}

	type resultChan struct {
		index int
		res   SourceResult
	}

	resultChanSlice := make(chan resultChan, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source Source) {
			defer wg.Done()
			resultChanSlice <- resultChan{index: index, res: r.run(ctx, source)}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChanSlice)
	}()

	for rc := range resultChanSlice {
		result.Results[rc.index] = rc.res
		if rc.res.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	return result
}

func (r *Runner) run(ctx context.Context, source Source) (res SourceResult) {
	res.Name = source.Name
	start := time.Now()
	defer func() { res.Latency = time.Since(start) }()

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	if source.Load == nil {
		res.Err = fmt.Errorf("%s: no loader", source.Name)
		return res
	}

	batch, err := source.Load(ctx)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", source.Name, err)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%s: %w", source.Name, err)
		return res
	}

	if r.config.Check != nil {
		if err := r.config.Check(source.Name, batch); err != nil {
			res.Err = fmt.Errorf("%s: %w", source.Name, err)
			return res
		}
	}

	res.Batch = batch
	res.Report = report.Build(r.validator, batch)
	return res
}
