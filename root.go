package main

import (
	"github.com/spf13/cobra"

	"species-sorter/internal/config"
)

// sortFlags mirrors the settings that can be overridden on the command line.
// Values are applied only when the flag was set explicitly so that the config
// file keeps precedence over flag defaults.
type sortFlags struct {
	configPath      string
	outputPath      string
	probThreshold   float64
	probMulti       float64
	maxMultiPred    int
	workers         int
	unknownCorridor string
	keepGoing       bool
	dryRun          bool
	logLevel        string
	logFormat       string
}

func newRootCommand() *cobra.Command {
	var flags sortFlags

	rootCmd := &cobra.Command{
		Use:   "species-sorter <csv_path> <image_path>",
		Short: "Copy camera-trap images into per-species folders",
		Long: "Reads a prediction CSV, files every image under\n" +
			"<output>/<year>/week<w>/<sector>/<corridor>/<species>/ and writes the CSV\n" +
			"back out with pred_path_N columns pointing at the copies.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags, args)
			if err != nil {
				return err
			}
			return runSort(cmd, cfg)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	f.StringVar(&flags.outputPath, "output_path", "", "Output directory (default <image_path>/predicted)")
	f.Float64Var(&flags.probThreshold, "p", 0, "Threshold the top prediction must exceed")
	f.Float64Var(&flags.probMulti, "p_multi", 0.5, "Threshold the second and third predictions must exceed")
	f.IntVar(&flags.maxMultiPred, "max_multi_pred", config.MaxMultiPred, "Number of prediction ranks to route (1-3)")
	f.IntVar(&flags.workers, "workers", 0, "Parallel image workers (0 = number of CPUs)")
	f.StringVar(&flags.unknownCorridor, "unknown_corridor", "", "Folder for images without a corridor in their metadata")
	f.BoolVar(&flags.keepGoing, "keep_going", false, "Record failed images in a route_error column instead of aborting")
	f.BoolVar(&flags.dryRun, "dry_run", false, "Show destinations without copying or writing the CSV")
	f.StringVar(&flags.logLevel, "log_level", "", "Log level: debug, info, warn or error")
	f.StringVar(&flags.logFormat, "log_format", "", "Log format: console or json")

	rootCmd.AddCommand(newConfigCommand())
	return rootCmd
}

// loadConfig reads the config file, applies positional arguments and explicit
// flags, then normalizes and validates the result.
func loadConfig(cmd *cobra.Command, flags *sortFlags, args []string) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Paths.CSVPath = args[0]
	}
	if len(args) > 1 {
		cfg.Paths.ImagePath = args[1]
	}

	changed := cmd.Flags().Changed
	if changed("output_path") {
		cfg.Paths.OutputPath = flags.outputPath
	}
	if changed("p") {
		cfg.Routing.ProbThreshold = flags.probThreshold
	}
	if changed("p_multi") {
		cfg.Routing.ProbMultiThreshold = flags.probMulti
	}
	if changed("max_multi_pred") {
		cfg.Routing.MaxMultiPred = flags.maxMultiPred
	}
	if changed("unknown_corridor") {
		cfg.Routing.UnknownCorridor = flags.unknownCorridor
	}
	if changed("workers") {
		cfg.Run.Workers = flags.workers
	}
	if changed("keep_going") {
		cfg.Run.KeepGoing = flags.keepGoing
	}
	if changed("dry_run") {
		cfg.Run.DryRun = flags.dryRun
	}
	if changed("log_level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log_format") {
		cfg.Logging.Format = flags.logFormat
	}

	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}
