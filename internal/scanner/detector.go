package scanner

// detector.go — evaluación de cada triple del plan contra el snapshot actual.
//
// La relación no es simétrica: cada triple se evalúa en ambas direcciones de
// forma independiente, y en mercados cruzados las dos pueden calificar en el
// mismo ciclo como oportunidades separadas.

import (
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Detector aplica el test de rentabilidad sobre el plan de comparación.
type Detector struct {
	delta float64 // umbral mínimo de profit como fracción
}

// NewDetector crea un Detector con el umbral dado.
func NewDetector(delta float64) *Detector {
	return &Detector{delta: delta}
}

// Detect evalúa todos los triples contra el snapshot y devuelve las
// oportunidades que superan estrictamente el umbral, en orden de
// descubrimiento. Quotes ausentes se saltan en silencio: es el estado
// esperado cuando un venue no cotizó el instrumento este ciclo.
func (d *Detector) Detect(cycleID string, plan *Plan, snapshot Snapshot) []domain.Opportunity {
	now := time.Now()
	var opps []domain.Opportunity

	for _, triple := range plan.Triples {
		quoteA, okA := snapshot.Quote(triple.VenueA, triple.Instrument)
		quoteB, okB := snapshot.Quote(triple.VenueB, triple.Instrument)
		if !okA || !okB {
			continue
		}

		// Dirección 1: comprar en B al ask, vender en A al bid.
		if opp, ok := d.direction(cycleID, plan, triple, triple.VenueB, quoteB, triple.VenueA, quoteA, now); ok {
			opps = append(opps, opp)
		}
		// Dirección 2: comprar en A al ask, vender en B al bid.
		if opp, ok := d.direction(cycleID, plan, triple, triple.VenueA, quoteA, triple.VenueB, quoteB, now); ok {
			opps = append(opps, opp)
		}
	}
	return opps
}

// direction evalúa una dirección: requiere ask del venue de compra y bid del
// venue de venta. Un ask no positivo es input degenerado y descarta la
// dirección en vez de producir un profit infinito.
func (d *Detector) direction(
	cycleID string,
	plan *Plan,
	triple domain.ComparisonTriple,
	buyVenue string, buyQuote domain.Quote,
	sellVenue string, sellQuote domain.Quote,
	now time.Time,
) (domain.Opportunity, bool) {
	if !buyQuote.HasAsk() || !sellQuote.HasBid() {
		return domain.Opportunity{}, false
	}

	profit, ok := domain.ProfitFraction(buyQuote.Ask, sellQuote.Bid)
	if !ok || profit <= d.delta {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		CycleID:    cycleID,
		Instrument: triple.Instrument,
		BuyVenue:   buyVenue,
		BuyPrice:   buyQuote.Ask,
		BuyKind:    plan.Kind(buyVenue, triple.Instrument),
		SellVenue:  sellVenue,
		SellPrice:  sellQuote.Bid,
		SellKind:   plan.Kind(sellVenue, triple.Instrument),
		Profit:     profit,
		DetectedAt: now,
	}, true
}
