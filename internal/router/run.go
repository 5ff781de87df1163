package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"species-sorter/internal/logging"
	"species-sorter/internal/predictions"
)

// Stats summarizes a run.
type Stats struct {
	Rows    int
	Routed  int
	Failed  int
	Copies  int
	Bytes   int64
	Unknown int
	// PerLabel counts destinations per species folder, including "unknown".
	PerLabel map[string]int
	Elapsed  time.Duration
}

// Result holds per-row outcomes in input order.
type Result struct {
	Outcomes []Outcome
	// Errors is non-nil only in keep-going runs; entries are nil for rows
	// that routed cleanly.
	Errors []error
	Stats  Stats
}

// Run routes every row on a pool of Options.Workers goroutines. Results keep
// input order regardless of completion order.
//
// By default the first row error cancels the remaining rows and is returned.
// With KeepGoing, row errors are collected in Result.Errors instead.
func (r *Router) Run(ctx context.Context, rows []Row) (*Result, error) {
	start := time.Now()
	r.logger.Info("processing predictions", logging.Args(
		logging.Int("rows", len(rows)),
		logging.Int("workers", r.opts.Workers),
		logging.Int("max_multi_pred", r.opts.MaxMultiPred),
		logging.Float64("prob_threshold", r.opts.ProbThreshold),
		logging.Float64("prob_multi_threshold", r.opts.ProbMultiThreshold),
		logging.Bool("dry_run", r.opts.DryRun),
	)...)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	outcomes := make([]Outcome, len(rows))
	errs := make([]error, len(rows))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(r.opts.Workers, max(len(rows), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				row := rows[i]
				out, err := r.Route(ctx, row)
				outcomes[i] = out
				if err != nil {
					err = fmt.Errorf("row %d (%s): %w", row.Index, row.Location, err)
					errs[i] = err
					if !r.opts.KeepGoing {
						cancel(err)
					} else {
						r.logger.Warn("image failed", logging.Args(
							logging.Int(logging.FieldRow, row.Index),
							logging.String(logging.FieldLocation, row.Location),
							logging.Error(err),
						)...)
					}
				}
				if r.opts.OnRowDone != nil {
					r.opts.OnRowDone()
				}
			}
		}()
	}

feed:
	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	res := &Result{Outcomes: outcomes}
	if r.opts.KeepGoing {
		res.Errors = errs
	}
	res.Stats = summarize(outcomes, errs)
	res.Stats.Elapsed = time.Since(start)

	r.logger.Info("routing complete", logging.Args(
		logging.Int("rows", res.Stats.Rows),
		logging.Int("routed", res.Stats.Routed),
		logging.Int("failed", res.Stats.Failed),
		logging.Int("copies", res.Stats.Copies),
		logging.Int64("bytes", res.Stats.Bytes),
		logging.Int("unknown", res.Stats.Unknown),
		logging.Duration("elapsed", res.Stats.Elapsed),
	)...)
	return res, nil
}

func summarize(outcomes []Outcome, errs []error) Stats {
	s := Stats{Rows: len(outcomes), PerLabel: make(map[string]int)}
	for i, out := range outcomes {
		if errs[i] != nil {
			s.Failed++
		} else {
			s.Routed++
		}
		// Failed rows may still have copied some ranks before the error.
		s.Copies += out.Copies
		s.Bytes += out.Bytes
		for rank, d := range out.Destinations {
			if !d.Routed() || out.Paths[rank] == "" {
				continue
			}
			s.PerLabel[d.Label]++
			if d.Unknown {
				s.Unknown++
			}
		}
	}
	return s
}

// Apply writes pred_path_1..pred_path_n into the table, plus route_error in
// keep-going runs. A failed row keeps the paths of copies made before its
// error so the table matches the files on disk.
func (res *Result) Apply(t *predictions.Table, maxMultiPred int) error {
	for rank, name := range predictions.PathColumns(maxMultiPred) {
		values := make([]string, len(res.Outcomes))
		for i, out := range res.Outcomes {
			if rank < len(out.Paths) {
				values[i] = out.Paths[rank]
			}
		}
		if err := t.SetColumn(name, values); err != nil {
			return err
		}
	}
	if res.Errors == nil {
		return nil
	}
	values := make([]string, len(res.Errors))
	for i, err := range res.Errors {
		if err != nil {
			values[i] = err.Error()
		}
	}
	return t.SetColumn(predictions.ErrorColumn, values)
}

// Failures returns the row errors of a keep-going run.
func (res *Result) Failures() []error {
	var failed []error
	for _, err := range res.Errors {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}
