package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/arbscan/internal/adapters/storage"
	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeOpportunity(symbol string, profit float64, size domain.Size) domain.Opportunity {
	inst, _ := domain.ParseInstrument(symbol)
	return domain.Opportunity{
		CycleID:    "cycle-abc",
		Instrument: inst,
		BuyVenue:   "binance",
		BuyPrice:   100,
		BuyKind:    domain.KindSpot,
		SellVenue:  "okx",
		SellPrice:  100 * (1 + profit),
		SellKind:   domain.KindSpot,
		Profit:     profit,
		Size:       size,
		DetectedAt: time.Now().UTC(),
	}
}

func openTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "arbscan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	opps := []domain.Opportunity{
		makeOpportunity("BTC/USDT", 0.08, domain.DefinedSize(1.5)),
		makeOpportunity("ETH/USDT", 0.05, domain.Size{}),
	}
	require.NoError(t, s.SaveCycle(ctx, "cycle-abc", opps))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// ordenado por profit descendente
	assert.Equal(t, "BTC/USDT", got[0].Instrument.Symbol())
	assert.Equal(t, 0.08, got[0].Profit)
	assert.Equal(t, "binance", got[0].BuyVenue)
	assert.Equal(t, domain.KindSpot, got[0].BuyKind)
	require.True(t, got[0].Size.Defined)
	assert.Equal(t, 1.5, got[0].Size.Amount)
}

func TestSQLiteStorage_UndefinedSizeRoundTripsAsNull(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	opps := []domain.Opportunity{makeOpportunity("ETH/USDT", 0.05, domain.Size{})}
	require.NoError(t, s.SaveCycle(ctx, "cycle-abc", opps))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Size.Defined)
}

func TestSQLiteStorage_EmptyCycleStillRecorded(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCycle(ctx, "cycle-empty", nil))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_HistoryRespectsRange(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	opps := []domain.Opportunity{makeOpportunity("BTC/USDT", 0.08, domain.DefinedSize(1))}
	require.NoError(t, s.SaveCycle(ctx, "cycle-abc", opps))

	got, err := s.GetHistory(ctx, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}
