package config

const (
	defaultProbThreshold      = 0.0
	defaultProbMultiThreshold = 0.5
	defaultMaxMultiPred       = 3
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultOutputDirName      = "predicted"

	// MinMultiPred and MaxMultiPred bound how many prediction ranks are routed.
	MinMultiPred = 1
	MaxMultiPred = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Routing: Routing{
			ProbThreshold:      defaultProbThreshold,
			ProbMultiThreshold: defaultProbMultiThreshold,
			MaxMultiPred:       defaultMaxMultiPred,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
