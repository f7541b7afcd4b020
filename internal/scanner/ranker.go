package scanner

import (
	"sort"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Rank ordena las oportunidades por profit descendente. El sort es estable:
// empates conservan el orden de descubrimiento, que es determinístico porque
// el plan itera instrumentos en orden fijo.
func Rank(opps []domain.Opportunity) []domain.Opportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Profit > opps[j].Profit
	})
	return opps
}
