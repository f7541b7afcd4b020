package scanner

// aggregator.go — snapshot bulk de quotes por venue, una vez por ciclo.
//
// Cada venue se consulta en su propio goroutine: un venue lento o caído
// degrada su aporte al ciclo pero no bloquea a los que ya respondieron. El
// fallo de un venue se loguea como evento recuperable y su snapshot queda
// vacío — "ausente" es un estado válido para el detector, no un error.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

// Snapshot es el resultado del fan-out: venue → quotes de este ciclo.
// Pertenece exclusivamente al ciclo que lo produjo.
type Snapshot map[string]map[domain.Instrument]domain.Quote

// Quote devuelve la quote de (venue, instrumento) y si está presente.
func (s Snapshot) Quote(venue string, inst domain.Instrument) (domain.Quote, bool) {
	q, ok := s[venue][inst]
	return q, ok
}

// Aggregator hace el fan-out/fan-in de FetchTickers sobre todos los venues.
type Aggregator struct {
	venues  []ports.Venue
	timeout time.Duration
}

// NewAggregator crea un Aggregator con el timeout por request dado.
func NewAggregator(venues []ports.Venue, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{venues: venues, timeout: timeout}
}

// Fetch pide a cada venue el subset del plan que soporta y espera a que todos
// respondan o fallen. Nunca devuelve error: los fallos por venue ya quedaron
// registrados y representados como snapshot vacío.
func (a *Aggregator) Fetch(ctx context.Context, plan *Plan) Snapshot {
	type venueResult struct {
		venue  string
		quotes map[domain.Instrument]domain.Quote
	}

	resultCh := make(chan venueResult, len(a.venues))
	var wg sync.WaitGroup

	for _, v := range a.venues {
		instruments := plan.VenueInstruments(v.Name())
		wg.Add(1)
		go func(v ports.Venue) {
			defer wg.Done()

			reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			quotes, err := v.FetchTickers(reqCtx, instruments)
			if err != nil {
				slog.Warn("venue snapshot failed, treating as absent this cycle",
					"venue", v.Name(),
					"instruments", len(instruments),
					"err", err,
				)
				quotes = map[domain.Instrument]domain.Quote{}
			}
			resultCh <- venueResult{venue: v.Name(), quotes: quotes}
		}(v)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	snapshot := make(Snapshot, len(a.venues))
	for r := range resultCh {
		snapshot[r.venue] = r.quotes
	}
	return snapshot
}
