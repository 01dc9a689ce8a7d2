// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	LogLevel      string
	Nodes         int
	Iterations    int
	OutputDir     string
	TaskTimeout   time.Duration
	ClickHouseDSN string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		OutputDir:     getEnv("BENCH_OUTPUT_DIR", DefaultOutputDir),
		ClickHouseDSN: getEnv("CLICKHOUSE_DSN", ""),
	}

	// Parse numeric values
	nodes, err := strconv.Atoi(getEnv("BENCH_NODES", strconv.Itoa(DefaultNodes)))
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_NODES: %w", err)
	}
	cfg.Nodes = nodes

	iterations, err := strconv.Atoi(getEnv("BENCH_ITERATIONS", strconv.Itoa(DefaultIterations)))
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_ITERATIONS: %w", err)
	}
	cfg.Iterations = iterations

	timeout, err := time.ParseDuration(getEnv("BENCH_TASK_TIMEOUT", DefaultTaskTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_TASK_TIMEOUT: %w", err)
	}
	cfg.TaskTimeout = timeout

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	dsnDisplay := "(not set)"
	if c.ClickHouseDSN != "" {
		dsnDisplay = "********"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Log Level:       %s
Nodes:           %d
Iterations:      %d
Output Dir:      %s
Task Timeout:    %s
ClickHouse DSN:  %s`,
		c.LogLevel,
		c.Nodes,
		c.Iterations,
		c.OutputDir,
		c.TaskTimeout,
		dsnDisplay,
	)
}
