package domain

import "strings"

// Instrument es un par tradeable identificado por asset base y asset de settlement.
// Inmutable una vez cargado para el run.
type Instrument struct {
	Base       string
	Settlement string
}

// ParseInstrument parsea un símbolo "BASE/SETTLEMENT" (ej. "BTC/USDT").
// Devuelve ok=false si el símbolo no tiene exactamente dos legs no vacíos.
func ParseInstrument(symbol string) (Instrument, bool) {
	base, settlement, found := strings.Cut(symbol, "/")
	if !found || base == "" || settlement == "" {
		return Instrument{}, false
	}
	return Instrument{Base: base, Settlement: settlement}, true
}

// Symbol devuelve la representación canónica "BASE/SETTLEMENT".
func (i Instrument) Symbol() string {
	return i.Base + "/" + i.Settlement
}

// MarketKind es el tipo de mercado en el que un venue cotiza un instrumento.
type MarketKind int

const (
	KindUnknown MarketKind = iota
	KindSpot
	KindFutures
	KindSwap
)

// String devuelve la etiqueta corta usada en tablas y audit log.
func (k MarketKind) String() string {
	switch k {
	case KindSpot:
		return "spot"
	case KindFutures:
		return "futures"
	case KindSwap:
		return "swap"
	default:
		return "unknown"
	}
}
