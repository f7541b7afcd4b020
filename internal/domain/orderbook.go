package domain

// OrderBook representa el libro de órdenes de un instrumento en un venue.
type OrderBook struct {
	Instrument Instrument
	Bids       []Level // ordenados mayor a menor precio
	Asks       []Level // ordenados menor a mayor precio
}

// Level es un nivel de precio en el orderbook.
type Level struct {
	Price float64
	Size  float64
}

// BestBid devuelve el mejor precio de compra (mayor bid).
// Devuelve 0 si el book está vacío.
func (ob OrderBook) BestBid() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Price
}

// BestAsk devuelve el mejor precio de venta (menor ask).
// Devuelve 0 si el book está vacío.
func (ob OrderBook) BestAsk() float64 {
	if len(ob.Asks) == 0 {
		return 0
	}
	return ob.Asks[0].Price
}

// AskDepthAtOrBelow acumula el size de los asks con precio <= limit,
// parando en el primer nivel con peor precio. Es el volumen comprable al
// precio cotizado o mejor.
func (ob OrderBook) AskDepthAtOrBelow(limit float64) float64 {
	var total float64
	for _, lvl := range ob.Asks {
		if lvl.Price > limit {
			break
		}
		total += lvl.Size
	}
	return total
}

// BidDepthAtOrAbove acumula el size de los bids con precio >= limit,
// parando en el primer nivel con peor precio. Es el volumen vendible al
// precio cotizado o mejor.
func (ob OrderBook) BidDepthAtOrAbove(limit float64) float64 {
	var total float64
	for _, lvl := range ob.Bids {
		if lvl.Price < limit {
			break
		}
		total += lvl.Size
	}
	return total
}
