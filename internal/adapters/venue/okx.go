package venue

// okx.go — adapter del API v5 de OKX.
//
// Endpoints usados (públicos):
//   GET /api/v5/public/instruments?instType=SPOT
//   GET /api/v5/market/tickers?instType=SPOT
//   GET /api/v5/market/books?instId=...&sz=...
//
// Las respuestas vienen envueltas en {code, msg, data}; code != "0" es error
// de aplicación.

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const defaultOKXBase = "https://www.okx.com"

// OKX implementa ports.Venue contra el API v5 de OKX.
type OKX struct {
	client  *Client
	base    string
	symbols map[string]domain.Instrument
}

// NewOKX crea el adapter. Si base está vacío usa el URL de producción.
func NewOKX(client *Client, base string) *OKX {
	if base == "" {
		base = defaultOKXBase
	}
	return &OKX{client: client, base: base, symbols: map[string]domain.Instrument{}}
}

// Name devuelve el nombre del venue.
func (o *OKX) Name() string { return "okx" }

type okxEnvelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

type okxInstrument struct {
	InstID   string `json:"instId"`
	BaseCcy  string `json:"baseCcy"`
	QuoteCcy string `json:"quoteCcy"`
	State    string `json:"state"`
}

// LoadMarkets carga los instrumentos spot en estado live.
func (o *OKX) LoadMarkets(ctx context.Context) (map[domain.Instrument]domain.MarketKind, error) {
	var resp okxEnvelope[okxInstrument]
	url := o.base + "/api/v5/public/instruments?instType=SPOT"
	if err := o.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("okx.LoadMarkets: %w", err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx.LoadMarkets: code %s: %s", resp.Code, resp.Msg)
	}

	markets := make(map[domain.Instrument]domain.MarketKind, len(resp.Data))
	for _, s := range resp.Data {
		if s.State != "live" || s.BaseCcy == "" || s.QuoteCcy == "" {
			continue
		}
		inst := domain.Instrument{Base: s.BaseCcy, Settlement: s.QuoteCcy}
		markets[inst] = domain.KindSpot
		o.symbols[s.InstID] = inst
	}
	return markets, nil
}

type okxTicker struct {
	InstID string `json:"instId"`
	BidPx  string `json:"bidPx"`
	BidSz  string `json:"bidSz"`
	AskPx  string `json:"askPx"`
	AskSz  string `json:"askSz"`
	Ts     string `json:"ts"`
}

// FetchTickers devuelve el best bid/ask bulk filtrado al subset pedido.
func (o *OKX) FetchTickers(ctx context.Context, instruments []domain.Instrument) (map[domain.Instrument]domain.Quote, error) {
	var resp okxEnvelope[okxTicker]
	url := o.base + "/api/v5/market/tickers?instType=SPOT"
	if err := o.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("okx.FetchTickers: %w", err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx.FetchTickers: code %s: %s", resp.Code, resp.Msg)
	}

	wanted := wantedSet(instruments)
	quotes := make(map[domain.Instrument]domain.Quote, len(instruments))
	for _, t := range resp.Data {
		inst, ok := o.symbols[t.InstID]
		if !ok {
			continue
		}
		if _, want := wanted[inst]; !want {
			continue
		}
		quotes[inst] = domain.Quote{
			Instrument: inst,
			Bid:        toFloat(t.BidPx),
			BidSize:    toSize(t.BidSz),
			Ask:        toFloat(t.AskPx),
			AskSize:    toSize(t.AskSz),
			At:         msTimestamp(t.Ts),
		}
	}
	return quotes, nil
}

type okxBook struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

// FetchOrderBook devuelve los niveles del libro hasta depth.
func (o *OKX) FetchOrderBook(ctx context.Context, inst domain.Instrument, depth int) (domain.OrderBook, error) {
	var resp okxEnvelope[okxBook]
	url := fmt.Sprintf("%s/api/v5/market/books?instId=%s-%s&sz=%d", o.base, inst.Base, inst.Settlement, depth)
	if err := o.client.getJSON(ctx, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("okx.FetchOrderBook %s: %w", inst.Symbol(), err)
	}
	if resp.Code != "0" {
		return domain.OrderBook{}, fmt.Errorf("okx.FetchOrderBook %s: code %s: %s",
			inst.Symbol(), resp.Code, resp.Msg)
	}
	if len(resp.Data) == 0 {
		return domain.OrderBook{Instrument: inst}, nil
	}
	return domain.OrderBook{
		Instrument: inst,
		Bids:       toLevels(resp.Data[0].Bids),
		Asks:       toLevels(resp.Data[0].Asks),
	}, nil
}
