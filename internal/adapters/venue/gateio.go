package venue

// gateio.go — adapter del API v4 de Gate.io, mercados spot.
//
// Endpoints usados (públicos):
//   GET /api/v4/spot/currency_pairs
//   GET /api/v4/spot/tickers
//   GET /api/v4/spot/order_book?currency_pair=...&limit=...
//
// El ticker bulk de Gate.io trae highest_bid/lowest_ask pero NO los sizes de
// cada lado — los quotes de este venue salen con size undefined, que el modo
// quoted-volume reporta tal cual en vez de inventar un cero.

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const defaultGateioBase = "https://api.gateio.ws"

// Gateio implementa ports.Venue contra el API v4 spot de Gate.io.
type Gateio struct {
	client  *Client
	base    string
	symbols map[string]domain.Instrument
}

// NewGateio crea el adapter. Si base está vacío usa el URL de producción.
func NewGateio(client *Client, base string) *Gateio {
	if base == "" {
		base = defaultGateioBase
	}
	return &Gateio{client: client, base: base, symbols: map[string]domain.Instrument{}}
}

// Name devuelve el nombre del venue.
func (g *Gateio) Name() string { return "gateio" }

type gateioPair struct {
	ID          string `json:"id"`
	Base        string `json:"base"`
	Quote       string `json:"quote"`
	TradeStatus string `json:"trade_status"`
}

// LoadMarkets carga los pares spot tradeables.
func (g *Gateio) LoadMarkets(ctx context.Context) (map[domain.Instrument]domain.MarketKind, error) {
	var pairs []gateioPair
	url := g.base + "/api/v4/spot/currency_pairs"
	if err := g.client.getJSON(ctx, url, &pairs); err != nil {
		return nil, fmt.Errorf("gateio.LoadMarkets: %w", err)
	}

	markets := make(map[domain.Instrument]domain.MarketKind, len(pairs))
	for _, p := range pairs {
		if p.TradeStatus != "tradable" || p.Base == "" || p.Quote == "" {
			continue
		}
		inst := domain.Instrument{Base: p.Base, Settlement: p.Quote}
		markets[inst] = domain.KindSpot
		g.symbols[p.ID] = inst
	}
	return markets, nil
}

type gateioTicker struct {
	CurrencyPair string `json:"currency_pair"`
	HighestBid   string `json:"highest_bid"`
	LowestAsk    string `json:"lowest_ask"`
}

// FetchTickers devuelve el best bid/ask bulk filtrado al subset pedido.
// Los sizes quedan undefined: el endpoint no los expone.
func (g *Gateio) FetchTickers(ctx context.Context, instruments []domain.Instrument) (map[domain.Instrument]domain.Quote, error) {
	var tickers []gateioTicker
	url := g.base + "/api/v4/spot/tickers"
	if err := g.client.getJSON(ctx, url, &tickers); err != nil {
		return nil, fmt.Errorf("gateio.FetchTickers: %w", err)
	}

	wanted := wantedSet(instruments)
	now := time.Now()
	quotes := make(map[domain.Instrument]domain.Quote, len(instruments))
	for _, t := range tickers {
		inst, ok := g.symbols[t.CurrencyPair]
		if !ok {
			continue
		}
		if _, want := wanted[inst]; !want {
			continue
		}
		quotes[inst] = domain.Quote{
			Instrument: inst,
			Bid:        toFloat(t.HighestBid),
			Ask:        toFloat(t.LowestAsk),
			At:         now,
		}
	}
	return quotes, nil
}

type gateioBook struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

// FetchOrderBook devuelve los niveles del libro hasta depth.
func (g *Gateio) FetchOrderBook(ctx context.Context, inst domain.Instrument, depth int) (domain.OrderBook, error) {
	var resp gateioBook
	url := fmt.Sprintf("%s/api/v4/spot/order_book?currency_pair=%s_%s&limit=%d",
		g.base, inst.Base, inst.Settlement, depth)
	if err := g.client.getJSON(ctx, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("gateio.FetchOrderBook %s: %w", inst.Symbol(), err)
	}
	return domain.OrderBook{
		Instrument: inst,
		Bids:       toLevels(resp.Bids),
		Asks:       toLevels(resp.Asks),
	}, nil
}
