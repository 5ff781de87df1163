// Package router files camera-trap images into the predicted-species tree.
//
// For every prediction row the router reads the image's capture metadata once,
// decides which prediction ranks clear their confidence threshold, and copies
// the image into
//
//	<output>/<year>/week<w>/<sector>/<corridor>/<label>/<file>
//
// for each of them. A top prediction that misses its threshold is filed under
// "unknown" instead. Rows are independent and run on a bounded worker pool.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"species-sorter/internal/capture"
	"species-sorter/internal/config"
	"species-sorter/internal/logging"
)

// UnknownLabel is the folder used when the top prediction is not confident.
const UnknownLabel = "unknown"

// MetadataReader reads the capture metadata of one image.
type MetadataReader interface {
	Read(path string) (capture.Capture, error)
}

// Options controls routing thresholds and execution.
type Options struct {
	ImageRoot          string
	OutputRoot         string
	ProbThreshold      float64
	ProbMultiThreshold float64
	MaxMultiPred       int
	Workers            int
	KeepGoing          bool
	DryRun             bool

	// OnRowDone is called once per finished row, from worker goroutines.
	OnRowDone func()
}

// OptionsFromConfig maps validated settings onto router options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ImageRoot:          cfg.Paths.ImagePath,
		OutputRoot:         cfg.Paths.OutputPath,
		ProbThreshold:      cfg.Routing.ProbThreshold,
		ProbMultiThreshold: cfg.Routing.ProbMultiThreshold,
		MaxMultiPred:       cfg.Routing.MaxMultiPred,
		Workers:            cfg.Run.Workers,
		KeepGoing:          cfg.Run.KeepGoing,
		DryRun:             cfg.Run.DryRun,
	}
}

// Router routes prediction rows to destination folders.
type Router struct {
	opts   Options
	reader MetadataReader
	logger *slog.Logger
}

// New constructs a Router. A nil logger discards output.
func New(opts Options, reader MetadataReader, logger *slog.Logger) (*Router, error) {
	if reader == nil {
		return nil, errors.New("router requires a metadata reader")
	}
	if opts.OutputRoot == "" {
		return nil, errors.New("router requires an output root")
	}
	opts.MaxMultiPred, _ = config.ClampMultiPred(opts.MaxMultiPred)
	opts.Workers = max(opts.Workers, 1)
	return &Router{
		opts:   opts,
		reader: reader,
		logger: logging.NewComponentLogger(logger, "router"),
	}, nil
}

// Destination is where one prediction rank of an image is filed. The zero
// value means the rank produced no copy.
type Destination struct {
	Rank    int
	Label   string
	Unknown bool
	Dir     string
}

// Routed reports whether the rank produced a destination.
func (d Destination) Routed() bool { return d.Dir != "" }

// Outcome is the result of routing a single row.
type Outcome struct {
	// Destinations has one entry per rank up to MaxMultiPred.
	Destinations []Destination
	// Paths holds the copied file path per rank, "" where nothing was copied.
	Paths  []string
	Copies int
	Bytes  int64
}

func (r *Router) qualifies(rank int, score float64) bool {
	if rank == 1 {
		return score > r.opts.ProbThreshold
	}
	return score > r.opts.ProbMultiThreshold
}

// Plan decides the destination of every rank for a row whose capture
// metadata is already known. It touches no files.
func (r *Router) Plan(row Row, c capture.Capture) ([]Destination, error) {
	base := filepath.Join(r.opts.OutputRoot, c.Dir())
	dests := make([]Destination, r.opts.MaxMultiPred)
	for rank := 1; rank <= r.opts.MaxMultiPred; rank++ {
		label, score := row.prediction(rank)
		switch {
		case r.qualifies(rank, score):
			folder := capture.CleanSegment(label)
			if folder == "" {
				return nil, fmt.Errorf("pred_%d is empty but score %v clears its threshold", rank, score)
			}
			dests[rank-1] = Destination{Rank: rank, Label: folder, Dir: filepath.Join(base, folder)}
		case rank == 1:
			dests[0] = Destination{Rank: 1, Label: UnknownLabel, Unknown: true, Dir: filepath.Join(base, UnknownLabel)}
		}
	}
	return dests, nil
}

// Route reads the row's image metadata once, plans its destinations, and
// copies the image into each of them. When a copy fails the returned Outcome
// still records the copies already made, alongside the error.
func (r *Router) Route(ctx context.Context, row Row) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if row.Location == "" {
		return Outcome{}, errors.New("empty location")
	}

	src := r.sourcePath(row.Location)
	c, err := r.reader.Read(src)
	if err != nil {
		return Outcome{}, err
	}
	dests, err := r.Plan(row, c)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Destinations: dests, Paths: make([]string, len(dests))}
	for i, d := range dests {
		if !d.Routed() {
			continue
		}
		if r.opts.DryRun {
			out.Paths[i] = filepath.Join(d.Dir, filepath.Base(src))
			continue
		}
		dst, n, err := copyInto(src, d.Dir)
		if err != nil {
			return out, fmt.Errorf("copy to %s: %w", d.Dir, err)
		}
		out.Paths[i] = dst
		out.Copies++
		out.Bytes += n
	}

	r.logger.Debug("routed image", logging.Args(
		logging.Int(logging.FieldRow, row.Index),
		logging.String(logging.FieldLocation, row.Location),
		logging.String("capture_dir", c.Dir()),
		logging.Int("copies", out.Copies),
	)...)
	return out, nil
}

func (r *Router) sourcePath(location string) string {
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(r.opts.ImageRoot, location)
}
