package config

import "time"

const (
	// DefaultLogLevel is the logging level used when LOG_LEVEL is not set.
	DefaultLogLevel = "info"
	// DefaultNodes is the number of simulated nodes a benchmark run spawns.
	DefaultNodes = 10
	// DefaultIterations is the per-node iteration count for benchmark scenarios.
	DefaultIterations = 1000
	// DefaultOutputDir is the directory benchmark artifacts are written to.
	DefaultOutputDir = "results"
	// DefaultTaskTimeout bounds a single node task before it is cancelled.
	DefaultTaskTimeout = 60 * time.Second
	// HistoryDatabase is the ClickHouse database holding recorded runs.
	HistoryDatabase = "benchgate"
	// HistoryTable is the ClickHouse table holding one row per recorded run.
	HistoryTable = "run_history"
)
