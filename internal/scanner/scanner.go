package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/exclusions"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

// Config contiene la configuración del scanner.
type Config struct {
	Settlement   string        // asset de settlement objetivo
	MinDelta     float64       // umbral de profit como fracción
	ScanInterval time.Duration // pausa entre el fin de un ciclo y el comienzo del siguiente
	MinVenues    int           // venues mínimos por instrumento
	VenueTimeout time.Duration // timeout por request de snapshot
	Once         bool          // ejecutar un solo ciclo y salir
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		Settlement:   "USDT",
		MinDelta:     0.03,
		ScanInterval: 2 * time.Second,
		MinVenues:    2,
		VenueTimeout: 10 * time.Second,
	}
}

// Scanner es el orquestador del loop de ciclos: snapshot → detect → estimate
// → rank → publish. Todo el estado mutable por ciclo (snapshot, lista de
// oportunidades) es propiedad exclusiva de ese ciclo y se descarta al final.
type Scanner struct {
	cfg       Config
	venues    []ports.Venue
	excl      *exclusions.Set
	estimator Estimator
	notifier  ports.Notifier
	storage   ports.Storage

	detector   *Detector
	aggregator *Aggregator
	plan       *Plan
}

// New crea un Scanner con todas las dependencias inyectadas. storage puede
// ser nil (histórico deshabilitado).
func New(
	cfg Config,
	venues []ports.Venue,
	excl *exclusions.Set,
	estimator Estimator,
	notifier ports.Notifier,
	storage ports.Storage,
) *Scanner {
	return &Scanner{
		cfg:        cfg,
		venues:     venues,
		excl:       excl,
		estimator:  estimator,
		notifier:   notifier,
		storage:    storage,
		detector:   NewDetector(cfg.MinDelta),
		aggregator: NewAggregator(venues, cfg.VenueTimeout),
	}
}

// Setup carga los mercados de cada venue y construye el plan de comparación.
// Un fallo de carga por venue es recuperable: ese venue aporta un set vacío.
// Devuelve error solo si el plan queda sin triples — no hay nada que comparar.
func (s *Scanner) Setup(ctx context.Context) error {
	membership := make(Membership, len(s.venues))
	venueOrder := make([]string, 0, len(s.venues))

	for _, v := range s.venues {
		venueOrder = append(venueOrder, v.Name())

		markets, err := v.LoadMarkets(ctx)
		if err != nil {
			slog.Warn("market load failed, venue contributes no instruments",
				"venue", v.Name(),
				"err", err,
			)
			markets = map[domain.Instrument]domain.MarketKind{}
		}
		membership[v.Name()] = markets
		slog.Info("markets loaded", "venue", v.Name(), "instruments", len(markets))
	}

	s.plan = NewPlan(membership, s.excl, s.cfg.Settlement, venueOrder, s.cfg.MinVenues)
	if len(s.plan.Triples) == 0 {
		return fmt.Errorf("scanner.Setup: no instruments quoted on %d+ venues against %s",
			s.cfg.MinVenues, s.cfg.Settlement)
	}

	slog.Info("comparison plan built",
		"instruments", s.plan.Instruments(),
		"triples", len(s.plan.Triples),
		"venues", len(s.venues),
	)
	return nil
}

// Run construye el plan y ejecuta el loop de ciclos hasta que el contexto se
// cancele. Con cfg.Once solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	if err := s.Setup(ctx); err != nil {
		return err
	}

	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"delta", s.cfg.MinDelta,
		"liquidity_mode", s.estimator.Name(),
		"once", s.cfg.Once,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}
	if s.cfg.Once {
		return nil
	}

	// Timer con Reset al terminar cada ciclo: el siguiente snapshot no
	// arranca hasta que el anterior terminó Y pasó el intervalo completo.
	timer := time.NewTimer(s.cfg.ScanInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-timer.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
			timer.Reset(s.cfg.ScanInterval)
		}
	}
}

// RunOnce ejecuta exactamente un ciclo (sin publicar) y devuelve las
// oportunidades. Requiere Setup previo.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Opportunity, error) {
	if s.plan == nil {
		if err := s.Setup(ctx); err != nil {
			return nil, err
		}
	}
	return s.cycle(ctx)
}

// runCycle ejecuta un ciclo completo y publica los resultados en los sinks.
// En cancelación el ciclo en vuelo se abandona sin publicación parcial.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	opps, err := s.cycle(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	if err := s.notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		cycleID := ""
		if len(opps) > 0 {
			cycleID = opps[0].CycleID
		}
		if err := s.storage.SaveCycle(ctx, cycleID, opps); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"opportunities", len(opps),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace snapshot → detect → estimate → rank. El result set reemplaza
// íntegramente al del ciclo anterior; ninguna identidad de oportunidad
// sobrevive entre ciclos.
func (s *Scanner) cycle(ctx context.Context) ([]domain.Opportunity, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cycleID := uuid.New().String()
	snapshot := s.aggregator.Fetch(ctx, s.plan)

	detected := s.detector.Detect(cycleID, s.plan, snapshot)
	estimated := s.estimate(ctx, detected, snapshot)

	slog.Debug("cycle evaluated",
		"cycle_id", cycleID,
		"triples", len(s.plan.Triples),
		"detected", len(detected),
		"kept", len(estimated),
	)

	return Rank(estimated), nil
}

// estimate calcula el size de cada oportunidad en paralelo (independientes
// entre sí) y descarta las que el estimador suprime. El orden de
// descubrimiento se preserva para que el ranking posterior sea estable.
func (s *Scanner) estimate(ctx context.Context, opps []domain.Opportunity, snapshot Snapshot) []domain.Opportunity {
	if len(opps) == 0 {
		return nil
	}

	results := make([]*domain.Opportunity, len(opps))
	var wg sync.WaitGroup

	for i, opp := range opps {
		wg.Add(1)
		go func(i int, opp domain.Opportunity) {
			defer wg.Done()

			buyQuote, _ := snapshot.Quote(opp.BuyVenue, opp.Instrument)
			sellQuote, _ := snapshot.Quote(opp.SellVenue, opp.Instrument)

			size, suppress := s.estimator.Estimate(ctx, opp, buyQuote, sellQuote)
			if suppress {
				slog.Debug("opportunity suppressed, no confirmed depth",
					"instrument", opp.Instrument.Symbol(),
					"buy_venue", opp.BuyVenue,
					"sell_venue", opp.SellVenue,
				)
				return
			}
			opp.Size = size
			results[i] = &opp
		}(i, opp)
	}
	wg.Wait()

	kept := make([]domain.Opportunity, 0, len(opps))
	for _, r := range results {
		if r != nil {
			kept = append(kept, *r)
		}
	}
	return kept
}
