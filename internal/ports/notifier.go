package ports

import (
	"context"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Notifier presenta las oportunidades de un ciclo al usuario.
type Notifier interface {
	// Notify publica el result set completo del ciclo, ya ordenado por profit.
	// El resultado reemplaza íntegramente al del ciclo anterior.
	Notify(ctx context.Context, opportunities []domain.Opportunity) error
}
