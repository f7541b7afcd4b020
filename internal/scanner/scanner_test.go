package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/exclusions"
	"github.com/alejandrodnm/arbscan/internal/ports"
	"github.com/alejandrodnm/arbscan/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// mockVenue implementa ports.Venue con respuestas programables por ciclo.
type mockVenue struct {
	name       string
	markets    map[domain.Instrument]domain.MarketKind
	marketsErr error

	quotes     []map[domain.Instrument]domain.Quote // una entrada por ciclo
	tickersErr error
	calls      int
}

func (m *mockVenue) Name() string { return m.name }

func (m *mockVenue) LoadMarkets(context.Context) (map[domain.Instrument]domain.MarketKind, error) {
	return m.markets, m.marketsErr
}

func (m *mockVenue) FetchTickers(context.Context, []domain.Instrument) (map[domain.Instrument]domain.Quote, error) {
	if m.tickersErr != nil {
		return nil, m.tickersErr
	}
	idx := m.calls
	if idx >= len(m.quotes) {
		idx = len(m.quotes) - 1
	}
	m.calls++
	if idx < 0 {
		return map[domain.Instrument]domain.Quote{}, nil
	}
	return m.quotes[idx], nil
}

func (m *mockVenue) FetchOrderBook(context.Context, domain.Instrument, int) (domain.OrderBook, error) {
	return domain.OrderBook{}, errors.New("not implemented")
}

type mockNotifier struct {
	notified [][]domain.Opportunity
}

func (m *mockNotifier) Notify(_ context.Context, opps []domain.Opportunity) error {
	m.notified = append(m.notified, opps)
	return nil
}

type mockStorage struct {
	cycles []string
	saved  [][]domain.Opportunity
}

func (m *mockStorage) SaveCycle(_ context.Context, cycleID string, opps []domain.Opportunity) error {
	m.cycles = append(m.cycles, cycleID)
	m.saved = append(m.saved, opps)
	return nil
}

func (m *mockStorage) GetHistory(_ context.Context, _, _ time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func (m *mockStorage) Close() error { return nil }

// --- helpers ---

func btc() domain.Instrument { return domain.Instrument{Base: "BTC", Settlement: "USDT"} }
func eth() domain.Instrument { return domain.Instrument{Base: "ETH", Settlement: "USDT"} }

func spotMarkets(insts ...domain.Instrument) map[domain.Instrument]domain.MarketKind {
	m := make(map[domain.Instrument]domain.MarketKind, len(insts))
	for _, i := range insts {
		m[i] = domain.KindSpot
	}
	return m
}

func quoteAt(inst domain.Instrument, bid, ask, size float64) domain.Quote {
	return domain.Quote{
		Instrument: inst,
		Bid:        bid,
		BidSize:    domain.DefinedSize(size),
		Ask:        ask,
		AskSize:    domain.DefinedSize(size),
		At:         time.Now(),
	}
}

func newTestScanner(venues []ports.Venue, notifier ports.Notifier, store ports.Storage) *scanner.Scanner {
	cfg := scanner.DefaultConfig()
	cfg.MinDelta = 0.03
	cfg.Once = true
	return scanner.New(cfg, venues, exclusions.Empty(), scanner.NewQuotedVolume(), notifier, store)
}

// --- tests ---

func TestScanner_RunOnce_DetectsOpportunity(t *testing.T) {
	cheap := &mockVenue{
		name:    "cheap",
		markets: spotMarkets(btc()),
		quotes:  []map[domain.Instrument]domain.Quote{{btc(): quoteAt(btc(), 99, 100, 5)}},
	}
	rich := &mockVenue{
		name:    "rich",
		markets: spotMarkets(btc()),
		quotes:  []map[domain.Instrument]domain.Quote{{btc(): quoteAt(btc(), 105, 106, 8)}},
	}

	s := newTestScanner([]ports.Venue{cheap, rich}, &mockNotifier{}, nil)
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "cheap", opp.BuyVenue)
	assert.Equal(t, 100.0, opp.BuyPrice)
	assert.Equal(t, "rich", opp.SellVenue)
	assert.Equal(t, 105.0, opp.SellPrice)
	assert.InDelta(t, 0.05, opp.Profit, 1e-9)
	require.True(t, opp.Size.Defined)
	assert.Equal(t, 5.0, opp.Size.Amount) // min(askSize cheap=5, bidSize rich=8)
	assert.NotEmpty(t, opp.CycleID)
}

func TestScanner_RunOnce_VenueFailureIsRecoverable(t *testing.T) {
	healthy := &mockVenue{
		name:    "healthy",
		markets: spotMarkets(btc()),
		quotes:  []map[domain.Instrument]domain.Quote{{btc(): quoteAt(btc(), 99, 100, 5)}},
	}
	broken := &mockVenue{
		name:       "broken",
		markets:    spotMarkets(btc()),
		tickersErr: errors.New("503 service unavailable"),
	}

	s := newTestScanner([]ports.Venue{healthy, broken}, &mockNotifier{}, nil)
	opps, err := s.RunOnce(context.Background())

	// el venue caído aporta un snapshot vacío: cero oportunidades, cero errores
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestScanner_Setup_FailsWithoutSharedInstruments(t *testing.T) {
	a := &mockVenue{name: "a", markets: spotMarkets(btc())}
	b := &mockVenue{name: "b", markets: spotMarkets(eth())}

	s := newTestScanner([]ports.Venue{a, b}, &mockNotifier{}, nil)
	err := s.Setup(context.Background())
	assert.Error(t, err)
}

func TestScanner_Setup_MarketLoadFailureContributesEmptySet(t *testing.T) {
	ok1 := &mockVenue{name: "ok1", markets: spotMarkets(btc())}
	ok2 := &mockVenue{name: "ok2", markets: spotMarkets(btc())}
	dead := &mockVenue{name: "dead", marketsErr: errors.New("connection refused")}

	s := newTestScanner([]ports.Venue{ok1, ok2, dead}, &mockNotifier{}, nil)
	// el venue muerto no aborta el setup mientras quede un plan válido
	require.NoError(t, s.Setup(context.Background()))
}

func TestScanner_ConsecutiveCyclesDoNotCarryOver(t *testing.T) {
	// ciclo 1: arbitraje en BTC; ciclo 2: solo en ETH
	cheap := &mockVenue{
		name:    "cheap",
		markets: spotMarkets(btc(), eth()),
		quotes: []map[domain.Instrument]domain.Quote{
			{btc(): quoteAt(btc(), 99, 100, 5), eth(): quoteAt(eth(), 9.9, 10, 5)},
			{eth(): quoteAt(eth(), 9.9, 10, 5)},
		},
	}
	rich := &mockVenue{
		name:    "rich",
		markets: spotMarkets(btc(), eth()),
		quotes: []map[domain.Instrument]domain.Quote{
			{btc(): quoteAt(btc(), 105, 106, 8), eth(): quoteAt(eth(), 10.1, 10.2, 8)},
			{eth(): quoteAt(eth(), 11, 11.1, 8)},
		},
	}

	s := newTestScanner([]ports.Venue{cheap, rich}, &mockNotifier{}, nil)

	first, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, btc(), first[0].Instrument)

	second, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	// el resultado del ciclo 2 no arrastra nada del ciclo 1
	assert.Equal(t, eth(), second[0].Instrument)
	assert.NotEqual(t, first[0].CycleID, second[0].CycleID)
}

func TestScanner_Run_PublishesToSinks(t *testing.T) {
	cheap := &mockVenue{
		name:    "cheap",
		markets: spotMarkets(btc()),
		quotes:  []map[domain.Instrument]domain.Quote{{btc(): quoteAt(btc(), 99, 100, 5)}},
	}
	rich := &mockVenue{
		name:    "rich",
		markets: spotMarkets(btc()),
		quotes:  []map[domain.Instrument]domain.Quote{{btc(): quoteAt(btc(), 105, 106, 8)}},
	}
	notifier := &mockNotifier{}
	store := &mockStorage{}

	s := newTestScanner([]ports.Venue{cheap, rich}, notifier, store)
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, notifier.notified, 1)
	require.Len(t, notifier.notified[0], 1)
	require.Len(t, store.saved, 1)
	assert.Equal(t, notifier.notified[0][0].CycleID, store.cycles[0])
}

func TestScanner_Run_StopsOnCancel(t *testing.T) {
	v1 := &mockVenue{name: "v1", markets: spotMarkets(btc()), quotes: []map[domain.Instrument]domain.Quote{{}}}
	v2 := &mockVenue{name: "v2", markets: spotMarkets(btc()), quotes: []map[domain.Instrument]domain.Quote{{}}}

	cfg := scanner.DefaultConfig()
	cfg.ScanInterval = 10 * time.Millisecond
	s := scanner.New(cfg, []ports.Venue{v1, v2}, exclusions.Empty(),
		scanner.NewQuotedVolume(), &mockNotifier{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop on context cancellation")
	}
}
