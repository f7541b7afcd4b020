package scanner

// liquidity.go — estrategias de estimación de size ejecutable.
//
// Dos implementaciones intercambiables, elegidas una vez al arrancar:
//
//   - QuotedVolume: barato, usa los sizes que ya vinieron en el snapshot.
//     Un size undefined (o cero) NO suprime la oportunidad — señala data
//     faltante y se reporta tal cual.
//   - BookDepth: caro (un fetch de orderbook extra por leg), solo se invoca
//     para oportunidades que ya pasaron el umbral. Acá un size de cero SÍ
//     suprime: la confirmación de profundidad existe justamente para filtrar
//     oportunidades sin liquidez ejecutable real.

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

// Estimator calcula el size ejecutable de una oportunidad ya detectada.
// suppress=true indica que la oportunidad debe descartarse del result set.
type Estimator interface {
	Name() string
	Estimate(ctx context.Context, opp domain.Opportunity, buyQuote, sellQuote domain.Quote) (size domain.Size, suppress bool)
}

// QuotedVolume estima con los sizes cotizados: min(askSize del leg de compra,
// bidSize del leg de venta).
type QuotedVolume struct{}

// NewQuotedVolume crea el estimador de volumen cotizado.
func NewQuotedVolume() *QuotedVolume { return &QuotedVolume{} }

// Name devuelve el identificador del modo.
func (q *QuotedVolume) Name() string { return "quoted" }

// Estimate devuelve el mínimo de los dos legs, o undefined si a cualquiera le
// falta el dato. Nunca suprime.
func (q *QuotedVolume) Estimate(_ context.Context, _ domain.Opportunity, buyQuote, sellQuote domain.Quote) (domain.Size, bool) {
	return domain.MinSize(buyQuote.AskSize, sellQuote.BidSize), false
}

// BookDepth estima caminando el orderbook vivo de cada leg hasta una
// profundidad acotada, acumulando los niveles a precio igual o mejor que el
// cotizado.
type BookDepth struct {
	venues map[string]ports.Venue
	depth  int
}

// NewBookDepth crea el estimador de profundidad. depth acota los niveles
// pedidos por leg (default 10).
func NewBookDepth(venues map[string]ports.Venue, depth int) *BookDepth {
	if depth <= 0 {
		depth = 10
	}
	return &BookDepth{venues: venues, depth: depth}
}

// Name devuelve el identificador del modo.
func (b *BookDepth) Name() string { return "depth" }

// Estimate trae los books de ambos legs en paralelo y devuelve
// min(volumen comprable <= buyPrice, volumen vendible >= sellPrice).
// Un fetch fallido cuenta como 0, y un estimado de 0 suprime la oportunidad.
func (b *BookDepth) Estimate(ctx context.Context, opp domain.Opportunity, _, _ domain.Quote) (domain.Size, bool) {
	var buyable, sellable float64
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		buyable = b.legDepth(ctx, opp.BuyVenue, opp.Instrument, func(book domain.OrderBook) float64 {
			return book.AskDepthAtOrBelow(opp.BuyPrice)
		})
	}()
	go func() {
		defer wg.Done()
		sellable = b.legDepth(ctx, opp.SellVenue, opp.Instrument, func(book domain.OrderBook) float64 {
			return book.BidDepthAtOrAbove(opp.SellPrice)
		})
	}()
	wg.Wait()

	size := min(buyable, sellable)
	if size <= 0 {
		return domain.DefinedSize(0), true
	}
	return domain.DefinedSize(size), false
}

// legDepth trae el book de un leg y aplica la medición del lado relevante.
// Cualquier fallo se loguea como recuperable y devuelve 0.
func (b *BookDepth) legDepth(ctx context.Context, venueName string, inst domain.Instrument, measure func(domain.OrderBook) float64) float64 {
	v, ok := b.venues[venueName]
	if !ok {
		return 0
	}
	book, err := v.FetchOrderBook(ctx, inst, b.depth)
	if err != nil {
		slog.Warn("order book fetch failed, sizing leg as zero",
			"venue", venueName,
			"instrument", inst.Symbol(),
			"err", err,
		)
		return 0
	}
	return measure(book)
}
