package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"species-sorter/internal/capture"
	"species-sorter/internal/config"
	"species-sorter/internal/logging"
	"species-sorter/internal/predictions"
	"species-sorter/internal/router"
)

// =============================================================================
// Sort Pipeline
// =============================================================================

// runSort routes every prediction row and writes the augmented CSV.
// Nothing is written when the run fails fast; in keep-going mode the CSV is
// written and the command still reports failure if any row failed.
func runSort(cmd *cobra.Command, cfg *config.Config) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: stderr,
		Color:  isTerminal(stderr),
	})
	if err != nil {
		return err
	}
	logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	printBanner(stdout, cfg)

	// Load the table before touching the output tree so a malformed CSV
	// leaves no trace.
	table, err := predictions.Load(cfg.Paths.CSVPath, cfg.Routing.MaxMultiPred)
	if err != nil {
		return err
	}
	rows, err := router.RowsFromTable(table, cfg.Routing.MaxMultiPred)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Paths.CSVPath, err)
	}

	if !cfg.Run.DryRun {
		if err := cfg.EnsureOutput(); err != nil {
			return err
		}
		lock := flock.New(cfg.LockPath())
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("lock output directory: %w", err)
		}
		if !locked {
			return fmt.Errorf("another run is writing to %s (lock %s held)", cfg.Paths.OutputPath, cfg.LockPath())
		}
		defer lock.Unlock()
	}

	opts := router.OptionsFromConfig(cfg)
	bar := newProgressBar(stderr, len(rows))
	if bar != nil {
		opts.OnRowDone = func() { _ = bar.Add(1) }
	}

	rt, err := router.New(opts, capture.Reader{UnknownCorridor: cfg.Routing.UnknownCorridor}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := rt.Run(ctx, rows)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if cfg.Run.DryRun {
		printPlan(stdout, cfg, rows, res)
	} else {
		if err := res.Apply(table, cfg.Routing.MaxMultiPred); err != nil {
			return err
		}
		if err := table.Save(cfg.OutputCSVPath()); err != nil {
			return fmt.Errorf("write output csv: %w", err)
		}
		logger.Info("wrote predictions", logging.String("path", cfg.OutputCSVPath()))
	}

	printSummary(stdout, cfg, res.Stats)

	if failed := res.Failures(); len(failed) > 0 {
		return fmt.Errorf("%d of %d images failed, first error: %w", len(failed), res.Stats.Rows, failed[0])
	}
	fmt.Fprintln(stdout, "\nDone!")
	return nil
}

// =============================================================================
// Terminal Output
// =============================================================================

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgressBar returns nil when w is not a terminal.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if total == 0 || !isTerminal(w) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Routing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("img"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func printBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "Species Sorter")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Predictions: %s\n", cfg.Paths.CSVPath)
	fmt.Fprintf(w, "Images:      %s\n", cfg.Paths.ImagePath)
	fmt.Fprintf(w, "Output:      %s\n", cfg.Paths.OutputPath)
	fmt.Fprintln(w)
	if cfg.Run.DryRun {
		fmt.Fprintln(w, "[DRY RUN MODE - nothing is copied and no CSV is written]")
		fmt.Fprintln(w)
	}
}

// printPlan lists every planned copy relative to the output directory.
func printPlan(w io.Writer, cfg *config.Config, rows []router.Row, res *router.Result) {
	for i, out := range res.Outcomes {
		fmt.Fprintf(w, "  %s\n", rows[i].Location)
		for _, p := range out.Paths {
			if p == "" {
				continue
			}
			if rel, err := filepath.Rel(cfg.Paths.OutputPath, p); err == nil {
				p = rel
			}
			fmt.Fprintf(w, "    → %s\n", p)
		}
	}
	fmt.Fprintln(w)
}
