package domain

import "time"

// ComparisonTriple es una combinación (instrumento, venueA, venueB) a evaluar
// cada ciclo. VenueA precede a VenueB en el orden configurado de venues.
// Se genera una vez al arrancar y es inmutable durante el run.
type ComparisonTriple struct {
	Instrument Instrument
	VenueA     string
	VenueB     string
}

// Opportunity es una divergencia de precio direccional que superó el umbral
// de delta: comprar en BuyVenue al ask y vender en SellVenue al bid.
// Vive exactamente un ciclo; nunca se actualiza in place entre ciclos.
type Opportunity struct {
	CycleID    string
	Instrument Instrument

	BuyVenue  string
	BuyPrice  float64 // ask del venue de compra
	BuyKind   MarketKind
	SellVenue string
	SellPrice float64 // bid del venue de venta
	SellKind  MarketKind

	// Profit es la fracción (SellPrice - BuyPrice) / BuyPrice.
	Profit float64
	// Size es la cantidad ejecutable estimada por el Estimator activo.
	Size Size

	DetectedAt time.Time
}

// ProfitPct devuelve el profit como porcentaje para display.
func (o Opportunity) ProfitPct() float64 {
	return o.Profit * 100
}

// ProfitFraction calcula (sell - buy) / buy. Devuelve ok=false si buy no es
// un precio positivo — un ask de exactamente cero es input degenerado y se
// rechaza en vez de propagar un profit infinito.
func ProfitFraction(buy, sell float64) (float64, bool) {
	if buy <= 0 {
		return 0, false
	}
	return (sell - buy) / buy, true
}
