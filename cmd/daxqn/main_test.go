package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/daxqn/initwfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daxqn.yaml")
	contents := []byte(`env: pendulum
bins: 7
episodes: 3
log_level: debug
solver: RMSProp
init_wfn:
  type: GlorotU
  config:
    gain: 2
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	configFile = path
	defer func() { configFile = "" }()

	require.NoError(t, loadConfig())
	assert.Equal(t, "pendulum", cfg.Env)
	assert.Equal(t, 7, cfg.Bins)
	assert.Equal(t, 3, episodes)
	assert.Equal(t, []int{64, 64}, cfg.HiddenSizes)
	assert.Equal(t, "RMSProp", cfg.Solver)
	require.NotNil(t, cfg.InitWFn)
	assert.Equal(t, initwfn.GlorotU, cfg.InitWFn.Type)
	assert.Equal(t, initwfn.GlorotUConfig{Gain: 2}, cfg.InitWFn.Config)

	logger, err := newLogger()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	logLevel = "loud"
	defer func() { logLevel = "info" }()

	_, err := newLogger()
	assert.Error(t, err)
}
