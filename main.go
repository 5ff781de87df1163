// Species Sorter - files camera-trap images by predicted species
//
// This tool reads a prediction CSV produced by an image classifier, looks up
// each image's capture date and camera corridor from its EXIF metadata, and
// copies the image into a structured directory hierarchy
// (<output>/<year>/week<w>/<sector>/<corridor>/<species>/).
//
// Features:
//   - Up to three predicted species per image, each with its own threshold
//   - Low-confidence top predictions filed under "unknown"
//   - Corridor extraction from the camera maker note
//   - Parallel copying with input order kept in the output CSV
//   - Output CSV with pred_path_N columns pointing at the copies
//   - Dry-run preview and keep-going mode for partial failures
//
// Usage:
//
//	species-sorter preds.csv images/                    # Sort into images/predicted
//	species-sorter preds.csv images/ --dry_run          # Preview destinations
//	species-sorter preds.csv images/ --p 0.3 --p_multi 0.6
//	species-sorter config init                          # Write a sample config
//
// Output layout:
//
//	predicted/
//	├── preds.csv                  <- Input rows plus pred_path_N columns
//	└── 2023/
//	    └── week1/
//	        └── SECTOR_A/
//	            └── CORRIDOR-07/
//	                ├── elephant/
//	                └── unknown/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
