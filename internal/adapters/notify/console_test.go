package notify_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/arbscan/internal/adapters/notify"
	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeOpp(symbol string, profit float64, size domain.Size) domain.Opportunity {
	base, settlement, _ := strings.Cut(symbol, "/")
	return domain.Opportunity{
		CycleID:    "cycle-1",
		Instrument: domain.Instrument{Base: base, Settlement: settlement},
		BuyVenue:   "binance",
		BuyPrice:   100,
		BuyKind:    domain.KindSpot,
		SellVenue:  "okx",
		SellPrice:  100 * (1 + profit),
		SellKind:   domain.KindSpot,
		Profit:     profit,
		Size:       size,
		DetectedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestConsole_EmptyCyclePrintsOneLine(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.Notify(context.Background(), nil))

	out := buf.String()
	assert.Contains(t, out, "no opportunities found")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsole_RendersTable(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	opps := []domain.Opportunity{
		makeOpp("BTC/USDT", 0.05, domain.DefinedSize(1.5)),
		makeOpp("ETH/USDT", 0.04, domain.Size{}),
	}
	require.NoError(t, c.Notify(context.Background(), opps))

	out := buf.String()
	assert.Contains(t, out, "2 arbitrage opportunities")
	assert.Contains(t, out, "BTC/USDT")
	assert.Contains(t, out, "ETH/USDT")
	assert.Contains(t, out, "binance (spot)")
	assert.Contains(t, out, "okx (spot)")
	assert.Contains(t, out, "5.00")
	// el size sin dato se imprime como undefined, nunca como cero
	assert.Contains(t, out, "undefined")
}

func TestAuditLog_AppendsOneLinePerOpportunity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a, err := notify.NewAuditLog(path)
	require.NoError(t, err)
	defer a.Close()

	first := []domain.Opportunity{makeOpp("BTC/USDT", 0.05, domain.DefinedSize(2))}
	second := []domain.Opportunity{
		makeOpp("ETH/USDT", 0.04, domain.Size{}),
		makeOpp("SOL/USDT", 0.035, domain.DefinedSize(10)),
	}
	require.NoError(t, a.Notify(context.Background(), first))
	require.NoError(t, a.Notify(context.Background(), second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "cycle=cycle-1")
	assert.Contains(t, lines[0], "BTC/USDT")
	assert.Contains(t, lines[0], "buy=binance(spot)@100")
	assert.Contains(t, lines[0], "sell=okx(spot)@105")
	assert.Contains(t, lines[0], "size=2")
	assert.Contains(t, lines[0], "profit=5.00%")
	assert.Contains(t, lines[1], "size=undefined")
}

func TestAuditLog_EmptyCycleWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a, err := notify.NewAuditLog(path)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Notify(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

type failingSink struct{ err error }

func (f failingSink) Notify(context.Context, []domain.Opportunity) error { return f.err }

type countingSink struct{ calls int }

func (c *countingSink) Notify(context.Context, []domain.Opportunity) error {
	c.calls++
	return nil
}

func TestMulti_FanOutReachesAllSinks(t *testing.T) {
	var buf bytes.Buffer
	counting := &countingSink{}
	m := notify.NewMulti(notify.NewConsoleWriter(&buf), counting)

	opps := []domain.Opportunity{makeOpp("BTC/USDT", 0.05, domain.DefinedSize(1))}
	require.NoError(t, m.Notify(context.Background(), opps))

	assert.Contains(t, buf.String(), "BTC/USDT")
	assert.Equal(t, 1, counting.calls)
}

func TestMulti_SinkErrorDoesNotShortCircuit(t *testing.T) {
	counting := &countingSink{}
	m := notify.NewMulti(failingSink{err: os.ErrClosed}, counting)

	err := m.Notify(context.Background(), nil)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Equal(t, 1, counting.calls)
}
