package venue

// mapping.go — helpers de conversión entre los payloads de las APIs y el dominio.

import (
	"strconv"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// toFloat convierte un precio string a float64. Devuelve 0 (lado ausente)
// si el string está vacío o no parsea.
func toFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// toSize convierte un size string a domain.Size. Un string vacío, no parseable
// o no positivo se reporta como undefined: el venue no dio el dato, que no es
// lo mismo que liquidez cero.
func toSize(s string) domain.Size {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return domain.Size{}
	}
	return domain.DefinedSize(v)
}

// toLevels convierte niveles [[price, size, ...], ...] en []domain.Level,
// ignorando entradas malformadas.
func toLevels(raw [][]string) []domain.Level {
	levels := make([]domain.Level, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			continue
		}
		price := toFloat(entry[0])
		size := toFloat(entry[1])
		if price <= 0 {
			continue
		}
		levels = append(levels, domain.Level{Price: price, Size: size})
	}
	return levels
}

// msTimestamp convierte un timestamp en milisegundos (string) a time.Time.
// Devuelve time.Now si el venue no lo reporta.
func msTimestamp(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
