package venue

// binance.go — adapter del API REST spot de Binance.
//
// Endpoints usados (todos públicos, sin auth):
//   GET /api/v3/exchangeInfo        metadata de símbolos
//   GET /api/v3/ticker/bookTicker   best bid/ask bulk de todos los símbolos
//   GET /api/v3/depth               orderbook de un símbolo

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const defaultBinanceBase = "https://api.binance.com"

// Binance implementa ports.Venue contra el API spot de Binance.
type Binance struct {
	client  *Client
	base    string
	symbols map[string]domain.Instrument // símbolo nativo → instrumento
}

// NewBinance crea el adapter. Si base está vacío usa el URL de producción.
func NewBinance(client *Client, base string) *Binance {
	if base == "" {
		base = defaultBinanceBase
	}
	return &Binance{client: client, base: base, symbols: map[string]domain.Instrument{}}
}

// Name devuelve el nombre del venue.
func (b *Binance) Name() string { return "binance" }

type binanceExchangeInfo struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		BaseAsset  string `json:"baseAsset"`
		QuoteAsset string `json:"quoteAsset"`
	} `json:"symbols"`
}

// LoadMarkets carga los símbolos en estado TRADING y memoriza el mapping
// símbolo nativo → instrumento para resolver los tickers bulk.
func (b *Binance) LoadMarkets(ctx context.Context) (map[domain.Instrument]domain.MarketKind, error) {
	var info binanceExchangeInfo
	url := b.base + "/api/v3/exchangeInfo"
	if err := b.client.getJSON(ctx, url, &info); err != nil {
		return nil, fmt.Errorf("binance.LoadMarkets: %w", err)
	}

	markets := make(map[domain.Instrument]domain.MarketKind, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "TRADING" || s.BaseAsset == "" || s.QuoteAsset == "" {
			continue
		}
		inst := domain.Instrument{Base: s.BaseAsset, Settlement: s.QuoteAsset}
		markets[inst] = domain.KindSpot
		b.symbols[s.Symbol] = inst
	}
	return markets, nil
}

type binanceBookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// FetchTickers devuelve el best bid/ask de los instrumentos pedidos.
// El endpoint bookTicker devuelve todos los símbolos en una sola request;
// filtramos al subset pedido.
func (b *Binance) FetchTickers(ctx context.Context, instruments []domain.Instrument) (map[domain.Instrument]domain.Quote, error) {
	var tickers []binanceBookTicker
	url := b.base + "/api/v3/ticker/bookTicker"
	if err := b.client.getJSON(ctx, url, &tickers); err != nil {
		return nil, fmt.Errorf("binance.FetchTickers: %w", err)
	}

	wanted := wantedSet(instruments)
	now := time.Now()
	quotes := make(map[domain.Instrument]domain.Quote, len(instruments))
	for _, t := range tickers {
		inst, ok := b.symbols[t.Symbol]
		if !ok {
			continue
		}
		if _, want := wanted[inst]; !want {
			continue
		}
		quotes[inst] = domain.Quote{
			Instrument: inst,
			Bid:        toFloat(t.BidPrice),
			BidSize:    toSize(t.BidQty),
			Ask:        toFloat(t.AskPrice),
			AskSize:    toSize(t.AskQty),
			At:         now,
		}
	}
	return quotes, nil
}

type binanceDepth struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

// FetchOrderBook devuelve los niveles del libro hasta depth.
func (b *Binance) FetchOrderBook(ctx context.Context, inst domain.Instrument, depth int) (domain.OrderBook, error) {
	var resp binanceDepth
	url := fmt.Sprintf("%s/api/v3/depth?symbol=%s%s&limit=%d", b.base, inst.Base, inst.Settlement, depth)
	if err := b.client.getJSON(ctx, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("binance.FetchOrderBook %s: %w", inst.Symbol(), err)
	}
	return domain.OrderBook{
		Instrument: inst,
		Bids:       toLevels(resp.Bids),
		Asks:       toLevels(resp.Asks),
	}, nil
}

// wantedSet indexa los instrumentos pedidos para el filtrado de tickers bulk.
func wantedSet(instruments []domain.Instrument) map[domain.Instrument]struct{} {
	set := make(map[domain.Instrument]struct{}, len(instruments))
	for _, inst := range instruments {
		set[inst] = struct{}{}
	}
	return set
}
