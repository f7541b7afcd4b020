package domain

import (
	"fmt"
	"time"
)

// Size es una cantidad estimada ejecutable. Defined=false significa que el venue
// no reportó el dato — no es lo mismo que cero (señala data faltante, no
// ausencia de liquidez).
type Size struct {
	Amount  float64
	Defined bool
}

// DefinedSize construye un Size conocido.
func DefinedSize(amount float64) Size {
	return Size{Amount: amount, Defined: true}
}

// String devuelve el valor formateado, o "undefined" si falta el dato.
func (s Size) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%g", s.Amount)
}

// MinSize devuelve el mínimo de dos sizes. Si cualquiera es undefined,
// el resultado es undefined: el dato faltante no se inventa.
func MinSize(a, b Size) Size {
	if !a.Defined || !b.Defined {
		return Size{}
	}
	if a.Amount < b.Amount {
		return a
	}
	return b
}

// Quote es el snapshot best bid/ask de un instrumento en un venue.
// Bid o Ask en 0 significa que ese lado no está cotizado en este ciclo.
type Quote struct {
	Instrument Instrument
	Bid        float64
	BidSize    Size
	Ask        float64
	AskSize    Size
	At         time.Time
}

// HasBid devuelve true si el lado bid está cotizado.
func (q Quote) HasBid() bool { return q.Bid > 0 }

// HasAsk devuelve true si el lado ask está cotizado.
func (q Quote) HasAsk() bool { return q.Ask > 0 }
