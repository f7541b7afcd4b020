package scanner

// plan.go — filtro de elegibilidad y construcción del plan de comparación.
//
// El plan se construye una sola vez al arrancar y es inmutable durante el run:
// un cambio en el archivo de exclusiones o en la lista de venues requiere
// restart, por diseño.

import (
	"sort"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/exclusions"
)

// Membership mapea venue → instrumentos cotizados con su tipo de mercado.
// Se construye al arrancar y es read-only durante el run.
type Membership map[string]map[domain.Instrument]domain.MarketKind

// Eligible devuelve la unión de instrumentos de todos los venues, restringida
// al settlement objetivo y sin los excluidos. Idempotente: aplicarla sobre su
// propio output devuelve el mismo set.
func Eligible(membership Membership, excl *exclusions.Set, settlement string) map[domain.Instrument]struct{} {
	eligible := make(map[domain.Instrument]struct{})
	for _, markets := range membership {
		for inst := range markets {
			if inst.Settlement != settlement {
				continue
			}
			if excl.Excluded(inst) {
				continue
			}
			eligible[inst] = struct{}{}
		}
	}
	return eligible
}

// Plan es el conjunto fijo de triples (instrumento, venueA, venueB) a evaluar
// cada ciclo, junto con el subset de instrumentos que cada venue aporta.
type Plan struct {
	Triples []domain.ComparisonTriple

	perVenue   map[string][]domain.Instrument
	membership Membership
}

// NewPlan construye el plan: para cada instrumento elegible toma sus venues en
// el orden configurado, descarta los que tienen menos de minVenues soportes y
// emite todas las combinaciones C(k,2). Los instrumentos se iteran en orden
// lexicográfico para que el resultado sea reproducible con inputs idénticos.
func NewPlan(membership Membership, excl *exclusions.Set, settlement string, venueOrder []string, minVenues int) *Plan {
	if minVenues < 2 {
		minVenues = 2
	}
	eligible := Eligible(membership, excl, settlement)

	instruments := make([]domain.Instrument, 0, len(eligible))
	for inst := range eligible {
		instruments = append(instruments, inst)
	}
	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Symbol() < instruments[j].Symbol()
	})

	plan := &Plan{
		perVenue:   make(map[string][]domain.Instrument, len(venueOrder)),
		membership: membership,
	}
	seen := make(map[string]map[domain.Instrument]struct{}, len(venueOrder))

	for _, inst := range instruments {
		var supported []string
		for _, venue := range venueOrder {
			if _, ok := membership[venue][inst]; ok {
				supported = append(supported, venue)
			}
		}
		if len(supported) < minVenues {
			continue
		}

		for _, venue := range supported {
			if seen[venue] == nil {
				seen[venue] = make(map[domain.Instrument]struct{})
			}
			if _, dup := seen[venue][inst]; !dup {
				seen[venue][inst] = struct{}{}
				plan.perVenue[venue] = append(plan.perVenue[venue], inst)
			}
		}

		for i := 0; i < len(supported); i++ {
			for j := i + 1; j < len(supported); j++ {
				plan.Triples = append(plan.Triples, domain.ComparisonTriple{
					Instrument: inst,
					VenueA:     supported[i],
					VenueB:     supported[j],
				})
			}
		}
	}
	return plan
}

// VenueInstruments devuelve los instrumentos del plan que el venue soporta.
// Es el subset a pedir en el snapshot bulk de cada ciclo.
func (p *Plan) VenueInstruments(venue string) []domain.Instrument {
	return p.perVenue[venue]
}

// Kind devuelve el tipo de mercado con el que el venue cotiza el instrumento.
func (p *Plan) Kind(venue string, inst domain.Instrument) domain.MarketKind {
	return p.membership[venue][inst]
}

// Instruments devuelve cuántos instrumentos distintos cubre el plan.
func (p *Plan) Instruments() int {
	distinct := make(map[domain.Instrument]struct{}, len(p.Triples))
	for _, t := range p.Triples {
		distinct[t.Instrument] = struct{}{}
	}
	return len(distinct)
}
