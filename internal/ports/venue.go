package ports

import (
	"context"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Venue es el handle de conectividad a un exchange. Cada llamada puede fallar;
// los fallos son recuperables y nunca fatales para el ciclo.
type Venue interface {
	// Name devuelve el nombre configurado del venue (ej. "binance").
	Name() string

	// LoadMarkets devuelve los instrumentos que el venue cotiza y el tipo de
	// mercado de cada uno. Se llama una vez al arrancar.
	LoadMarkets(ctx context.Context) (map[domain.Instrument]domain.MarketKind, error)

	// FetchTickers devuelve el snapshot bulk best bid/ask para los instrumentos
	// dados. Entradas parciales o ausentes son válidas — un instrumento sin
	// cotización actual simplemente no aparece en el mapa.
	FetchTickers(ctx context.Context, instruments []domain.Instrument) (map[domain.Instrument]domain.Quote, error)

	// FetchOrderBook devuelve los niveles del libro hasta la profundidad dada.
	FetchOrderBook(ctx context.Context, instrument domain.Instrument, depth int) (domain.OrderBook, error)
}
