package venue

// registry.go — capability table de venues soportados.
//
// Mapa estático de factories: un nombre desconocido falla al inicializar, no
// en mitad de un ciclo. Los rate limits por venue viven acá, junto al factory
// que los necesita.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alejandrodnm/arbscan/internal/ports"
)

// factory construye un venue con su client HTTP ya configurado.
type factory func() ports.Venue

var registry = map[string]factory{
	"binance": func() ports.Venue { return NewBinance(NewClient(18), "") },
	"bybit":   func() ports.Venue { return NewBybit(NewClient(10), "") },
	"okx":     func() ports.Venue { return NewOKX(NewClient(10), "") },
	"gateio":  func() ports.Venue { return NewGateio(NewClient(8), "") },
}

// New instancia el venue con el nombre dado. Devuelve error si el nombre no
// está en la tabla — esto es un error de configuración, no de runtime.
func New(name string) (ports.Venue, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("venue.New: unsupported venue %q (supported: %s)",
			name, strings.Join(Supported(), ", "))
	}
	return f(), nil
}

// Supported devuelve los nombres de venue soportados, ordenados.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
