package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/arbscan/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
scanner:
  venues: [binance, bybit]
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USDT", cfg.Scanner.Settlement)
	assert.InDelta(t, 0.03, cfg.Scanner.MinDelta, 1e-9)
	assert.Equal(t, 2, cfg.Scanner.IntervalSeconds)
	assert.Equal(t, config.LiquidityQuoted, cfg.Scanner.LiquidityMode)
	assert.Equal(t, 10, cfg.Scanner.BookDepth)
	assert.Equal(t, 2, cfg.Scanner.MinVenues)
	assert.Equal(t, "exceptions.txt", cfg.Scanner.ExclusionsFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Explicit(t *testing.T) {
	path := writeConfig(t, `
scanner:
  settlement: USDC
  min_delta: 0.01
  interval_seconds: 5
  liquidity_mode: depth
  book_depth: 25
  venues: [okx, gateio]
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USDC", cfg.Scanner.Settlement)
	assert.InDelta(t, 0.01, cfg.Scanner.MinDelta, 1e-9)
	assert.Equal(t, config.LiquidityDepth, cfg.Scanner.LiquidityMode)
	assert.Equal(t, 25, cfg.Scanner.BookDepth)
	assert.Equal(t, []string{"okx", "gateio"}, cfg.Scanner.Venues)
}

func TestLoad_NoVenuesIsFatal(t *testing.T) {
	path := writeConfig(t, `
scanner:
  settlement: USDT
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no venues")
}

func TestLoad_UnknownLiquidityModeIsFatal(t *testing.T) {
	path := writeConfig(t, `
scanner:
  venues: [binance]
  liquidity_mode: magic
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liquidity_mode")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
