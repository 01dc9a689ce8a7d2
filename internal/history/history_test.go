package history

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisworks/benchgate/internal/bench"
	"github.com/sisworks/benchgate/internal/gate"
)

func TestNewRecorder(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(logrus.New(), "clickhouse://localhost:9000/benchgate")
	require.NotNil(t, rec)
}

func TestSuiteArgs(t *testing.T) {
	t.Parallel()

	suite := &bench.TestSuite{
		SuiteName: "performance_benchmark",
		StartTime: 1700000000.0,
		EndTime:   1700000012.5,
		NodeCount: 10,
		Summary: bench.Summary{
			TotalTests:  5,
			PassedTests: 4,
			FailedTests: 1,
		},
	}

	args := suiteArgs(suite)
	require.Len(t, args, 13)

	assert.Equal(t, kindSuite, args[1])
	assert.Equal(t, "performance_benchmark", args[2])
	assert.Equal(t, uint16(10), args[3])
	assert.Equal(t, uint32(5), args[4])
	assert.Equal(t, uint32(4), args[5])
	assert.Equal(t, uint32(1), args[6])
	assert.InDelta(t, 0.8, args[7], 1e-9)
	assert.InDelta(t, 12.5, args[8], 1e-9)
	assert.Equal(t, uint8(0), args[9])
}

func TestSuiteArgsCleanRun(t *testing.T) {
	t.Parallel()

	suite := &bench.TestSuite{
		SuiteName: "distributed_consensus",
		NodeCount: 7,
	}

	args := suiteArgs(suite)
	require.Len(t, args, 13)

	assert.InDelta(t, 0.0, args[7], 1e-9)
	assert.Equal(t, uint8(1), args[9])
}

func TestVerdictArgs(t *testing.T) {
	t.Parallel()

	verdict := &gate.Verdict{
		Success: false,
		Errors: []gate.Finding{
			{Message: "boom", Severity: gate.SeverityError},
		},
		Warnings: []gate.Finding{
			{Message: "first", Severity: gate.SeverityWarning},
			{Message: "second", Severity: gate.SeverityWarning},
		},
	}

	args := verdictArgs("release", "results.json", verdict)
	require.Len(t, args, 13)

	assert.Equal(t, kindVerdict, args[1])
	assert.Equal(t, "release", args[2])
	assert.Equal(t, uint8(0), args[9])
	assert.Equal(t, uint16(1), args[10])
	assert.Equal(t, uint16(2), args[11])
	assert.Equal(t, "results.json", args[12])
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	driver, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)

	version, err := driver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
