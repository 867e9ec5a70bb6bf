package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/fammo-app/fammo/internal/shared/config"
)

func TestOpen_AppliesPoolLimits(t *testing.T) {
	cfg := &config.DatabaseConfig{Database: "open_test", MaxOpenConns: 3, MaxIdleConns: 2, SlowQueryMs: 50}

	conn, err := Open(sqlite.Open("file:open_test?mode=memory&cache=shared"), cfg)
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	// registering the same pool twice is tolerated
	_, err = Open(sqlite.Open("file:open_test?mode=memory&cache=shared"), cfg)
	assert.NoError(t, err)
}

func TestClose_WithoutInit(t *testing.T) {
	assert.NoError(t, Close())
	assert.Nil(t, Get())
}
