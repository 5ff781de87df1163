// Package config loads, normalizes, and validates species-sorter settings.
//
// Settings come from three layers applied in order: repository defaults, an
// optional TOML file, and command-line overrides supplied by the CLI. After the
// layers are merged, Normalize expands user paths, derives the default output
// directory, and clamps the multi-prediction count; Validate then checks that
// the prediction CSV and image directory exist before any image is touched.
//
// Always obtain settings through this package so the router receives absolute
// paths and thresholds that are known to be usable.
package config
