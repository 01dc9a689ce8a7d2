// Package history records benchmark suites and gate verdicts in ClickHouse.
// The sink is optional: callers construct it only when a DSN is configured
// and treat every error as non-fatal.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/config"
	"github.com/sisworks/benchgate/internal/gate"
)

// Row kinds stored in the run_history table.
const (
	kindSuite   = "suite"
	kindVerdict = "verdict"
)

// Recorder persists one row per benchmark suite or gate verdict.
type Recorder interface {
	// Start connects to ClickHouse and applies pending migrations.
	Start(ctx context.Context) error
	// Stop closes the connection.
	Stop() error
	// RecordSuite inserts one row for a completed benchmark suite.
	RecordSuite(ctx context.Context, suite *bench.TestSuite) error
	// RecordVerdict inserts one row for a gate evaluation of a results document.
	RecordVerdict(ctx context.Context, profile, file string, verdict *gate.Verdict) error
}

// NewRecorder creates a Recorder writing to the ClickHouse instance named by
// dsn. Returns Recorder interface, not *recorder struct.
func NewRecorder(log logrus.FieldLogger, dsn string) Recorder {
	return &recorder{
		log: log.WithField("component", "history"),
		dsn: dsn,
	}
}

type recorder struct {
	log  logrus.FieldLogger
	dsn  string
	conn driver.Conn
}

// Start connects using the native protocol and prepares the run_history schema.
func (r *recorder) Start(ctx context.Context) error {
	r.log.Debug("starting history recorder")

	opts, err := clickhouse.ParseDSN(r.dsn)
	if err != nil {
		return fmt.Errorf("parsing clickhouse dsn: %w", err)
	}

	opts.Settings = clickhouse.Settings{
		"max_execution_time": 60,
	}
	opts.DialTimeout = time.Second * 30
	opts.MaxOpenConns = 5
	opts.MaxIdleConns = 5
	opts.ConnMaxLifetime = time.Duration(10) * time.Minute
	opts.Compression = &clickhouse.Compression{
		Method: clickhouse.CompressionLZ4,
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()

		return fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	createSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", config.HistoryDatabase)
	if err := conn.Exec(ctx, createSQL); err != nil {
		_ = conn.Close()

		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := r.runMigrations(ctx, opts); err != nil {
		_ = conn.Close()

		return fmt.Errorf("running history migrations: %w", err)
	}

	r.conn = conn

	r.log.Info("history recorder started")

	return nil
}

// Stop closes the connection.
func (r *recorder) Stop() error {
	r.log.Debug("stopping history recorder")

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("closing connection: %w", err)
		}
	}

	return nil
}

// RecordSuite inserts one row for a completed benchmark suite.
func (r *recorder) RecordSuite(ctx context.Context, suite *bench.TestSuite) error {
	if err := r.conn.Exec(ctx, insertSQL, suiteArgs(suite)...); err != nil {
		return fmt.Errorf("inserting suite row: %w", err)
	}

	r.log.WithField("suite", suite.SuiteName).Debug("recorded suite")

	return nil
}

// RecordVerdict inserts one row for a gate evaluation of a results document.
func (r *recorder) RecordVerdict(ctx context.Context, profile, file string, verdict *gate.Verdict) error {
	if err := r.conn.Exec(ctx, insertSQL, verdictArgs(profile, file, verdict)...); err != nil {
		return fmt.Errorf("inserting verdict row: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"profile": profile,
		"file":    file,
	}).Debug("recorded verdict")

	return nil
}

var insertSQL = fmt.Sprintf(`INSERT INTO %s.%s
	(recorded_at, kind, name, node_count, total_tests, passed_tests, failed_tests,
	 success_rate, duration_sec, success, error_count, warning_count, source_file)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, config.HistoryDatabase, config.HistoryTable)

// suiteArgs maps a suite onto the run_history column order.
//
//nolint:gosec // G115: counts are small non-negative ints
func suiteArgs(suite *bench.TestSuite) []interface{} {
	rate := 0.0
	if suite.Summary.TotalTests > 0 {
		rate = float64(suite.Summary.PassedTests) / float64(suite.Summary.TotalTests)
	}

	return []interface{}{
		time.Now().UTC(),
		kindSuite,
		suite.SuiteName,
		uint16(suite.NodeCount),
		uint32(suite.Summary.TotalTests),
		uint32(suite.Summary.PassedTests),
		uint32(suite.Summary.FailedTests),
		rate,
		suite.Duration(),
		boolToUInt8(suite.Summary.FailedTests == 0),
		uint16(0),
		uint16(0),
		"",
	}
}

// verdictArgs maps a verdict onto the run_history column order.
//
//nolint:gosec // G115: finding counts are small non-negative ints
func verdictArgs(profile, file string, verdict *gate.Verdict) []interface{} {
	return []interface{}{
		time.Now().UTC(),
		kindVerdict,
		profile,
		uint16(0),
		uint32(0),
		uint32(0),
		uint32(0),
		0.0,
		0.0,
		boolToUInt8(verdict.Success),
		uint16(len(verdict.Errors)),
		uint16(len(verdict.Warnings)),
		file,
	}
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

var _ Recorder = (*recorder)(nil)
