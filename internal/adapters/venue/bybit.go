package venue

// bybit.go — adapter del API v5 de Bybit, categoría spot.
//
// Endpoints usados (públicos):
//   GET /v5/market/instruments-info?category=spot
//   GET /v5/market/tickers?category=spot
//   GET /v5/market/orderbook?category=spot&symbol=...&limit=...
//
// Todas las respuestas v5 vienen envueltas en {retCode, retMsg, result};
// retCode != 0 es un error de aplicación aunque el HTTP sea 200.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const defaultBybitBase = "https://api.bybit.com"

// Bybit implementa ports.Venue contra el API v5 spot de Bybit.
type Bybit struct {
	client  *Client
	base    string
	symbols map[string]domain.Instrument
}

// NewBybit crea el adapter. Si base está vacío usa el URL de producción.
func NewBybit(client *Client, base string) *Bybit {
	if base == "" {
		base = defaultBybitBase
	}
	return &Bybit{client: client, base: base, symbols: map[string]domain.Instrument{}}
}

// Name devuelve el nombre del venue.
func (b *Bybit) Name() string { return "bybit" }

type bybitEnvelope[T any] struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  T      `json:"result"`
}

type bybitInstruments struct {
	List []struct {
		Symbol    string `json:"symbol"`
		BaseCoin  string `json:"baseCoin"`
		QuoteCoin string `json:"quoteCoin"`
		Status    string `json:"status"`
	} `json:"list"`
}

// LoadMarkets carga los símbolos spot en estado Trading.
func (b *Bybit) LoadMarkets(ctx context.Context) (map[domain.Instrument]domain.MarketKind, error) {
	var resp bybitEnvelope[bybitInstruments]
	url := b.base + "/v5/market/instruments-info?category=spot&limit=1000"
	if err := b.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("bybit.LoadMarkets: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit.LoadMarkets: retCode %d: %s", resp.RetCode, resp.RetMsg)
	}

	markets := make(map[domain.Instrument]domain.MarketKind, len(resp.Result.List))
	for _, s := range resp.Result.List {
		if s.Status != "Trading" || s.BaseCoin == "" || s.QuoteCoin == "" {
			continue
		}
		inst := domain.Instrument{Base: s.BaseCoin, Settlement: s.QuoteCoin}
		markets[inst] = domain.KindSpot
		b.symbols[s.Symbol] = inst
	}
	return markets, nil
}

type bybitTickers struct {
	List []struct {
		Symbol    string `json:"symbol"`
		Bid1Price string `json:"bid1Price"`
		Bid1Size  string `json:"bid1Size"`
		Ask1Price string `json:"ask1Price"`
		Ask1Size  string `json:"ask1Size"`
	} `json:"list"`
}

// FetchTickers devuelve el best bid/ask bulk filtrado al subset pedido.
func (b *Bybit) FetchTickers(ctx context.Context, instruments []domain.Instrument) (map[domain.Instrument]domain.Quote, error) {
	var resp bybitEnvelope[bybitTickers]
	url := b.base + "/v5/market/tickers?category=spot"
	if err := b.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("bybit.FetchTickers: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit.FetchTickers: retCode %d: %s", resp.RetCode, resp.RetMsg)
	}

	wanted := wantedSet(instruments)
	now := time.Now()
	quotes := make(map[domain.Instrument]domain.Quote, len(instruments))
	for _, t := range resp.Result.List {
		inst, ok := b.symbols[t.Symbol]
		if !ok {
			continue
		}
		if _, want := wanted[inst]; !want {
			continue
		}
		quotes[inst] = domain.Quote{
			Instrument: inst,
			Bid:        toFloat(t.Bid1Price),
			BidSize:    toSize(t.Bid1Size),
			Ask:        toFloat(t.Ask1Price),
			AskSize:    toSize(t.Ask1Size),
			At:         now,
		}
	}
	return quotes, nil
}

type bybitOrderbook struct {
	Bids [][]string `json:"b"`
	Asks [][]string `json:"a"`
	Ts   int64      `json:"ts"`
}

// FetchOrderBook devuelve los niveles del libro hasta depth.
func (b *Bybit) FetchOrderBook(ctx context.Context, inst domain.Instrument, depth int) (domain.OrderBook, error) {
	var resp bybitEnvelope[bybitOrderbook]
	url := fmt.Sprintf("%s/v5/market/orderbook?category=spot&symbol=%s%s&limit=%d",
		b.base, inst.Base, inst.Settlement, depth)
	if err := b.client.getJSON(ctx, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("bybit.FetchOrderBook %s: %w", inst.Symbol(), err)
	}
	if resp.RetCode != 0 {
		return domain.OrderBook{}, fmt.Errorf("bybit.FetchOrderBook %s: retCode %d: %s",
			inst.Symbol(), resp.RetCode, resp.RetMsg)
	}
	return domain.OrderBook{
		Instrument: inst,
		Bids:       toLevels(resp.Result.Bids),
		Asks:       toLevels(resp.Result.Asks),
	}, nil
}
