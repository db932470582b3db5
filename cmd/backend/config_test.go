package main

import (
	"testing"

	"github.com/hairizuan-noorazman/caseflow/testcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "caseflow", cfg.Database.Database)
	assert.NotZero(t, cfg.BulkEdit.BaseTimeout)
	assert.NotZero(t, cfg.Session.Duration)
}

func TestLoadConfig_WriteTimeoutOutlastsBulkEdit(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Greater(t, cfg.Server.WriteTimeout, testcase.MaxTransactionTimeout,
		"write timeout must outlast the bulk edit transaction cap")
}
