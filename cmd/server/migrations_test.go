package main

import (
	"testing"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogGooseLogger(t *testing.T) {
	logs, l := logger.NewBufferedLogger()
	gooseLogger := &slogGooseLogger{logger: l}

	gooseLogger.Printf("OK   %s (%s)\n", "20250101000000_create_tasks_table.sql", "12ms")
	gooseLogger.Fatalf("failed to run migration %d", 3)

	entries, err := logs.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "OK   20250101000000_create_tasks_table.sql (12ms)", entries[0]["msg"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "failed to run migration 3", entries[1]["msg"])
}

func TestIsMigrationCommand(t *testing.T) {
	for _, command := range []string{"up", "down", "status", "version"} {
		assert.True(t, isMigrationCommand(command), command)
	}
	assert.False(t, isMigrationCommand("create"))
	assert.False(t, isMigrationCommand(""))
}

func TestRunMigrationCommandRequiresPostgres(t *testing.T) {
	_, l := logger.NewBufferedLogger()
	cfg := testConfig(t)
	cfg.Database.Driver = config.DriverSQLite

	err := runMigrationCommand(t.Context(), cfg, l, "up")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported for the postgres driver")
}
