package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"species-sorter/internal/config"
	"species-sorter/internal/router"
)

// printSummary renders per-species counts followed by run totals.
func printSummary(w io.Writer, cfg *config.Config, stats router.Stats) {
	labels := lo.Keys(stats.PerLabel)
	sort.Slice(labels, func(i, j int) bool {
		ci, cj := stats.PerLabel[labels[i]], stats.PerLabel[labels[j]]
		if ci != cj {
			return ci > cj
		}
		return labels[i] < labels[j]
	})

	title := cases.Title(language.Und)
	rows := lo.Map(labels, func(label string, _ int) []string {
		return []string{title.String(label), label, strconv.Itoa(stats.PerLabel[label])}
	})
	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Species", "Folder", "Images"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
		fmt.Fprintln(w)
	}

	verb := "Copied"
	if cfg.Run.DryRun {
		verb = "[DRY RUN] Would copy"
	}
	fmt.Fprintf(w, "%s %d files", verb, stats.Copies)
	if !cfg.Run.DryRun {
		fmt.Fprintf(w, " (%s)", humanize.Bytes(uint64(stats.Bytes)))
	}
	fmt.Fprintf(w, " from %d of %d images in %s\n", stats.Routed, stats.Rows, stats.Elapsed.Round(time.Millisecond))
	if stats.Unknown > 0 {
		fmt.Fprintf(w, "Filed %d images under %q\n", stats.Unknown, router.UnknownLabel)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(w, "Failed %d images\n", stats.Failed)
	}
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := range r {
		r[i] = ""
		if i < len(values) {
			r[i] = values[i]
		}
	}
	return r
}
