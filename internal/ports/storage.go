package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Storage persiste el registro de auditoría de cada ciclo.
type Storage interface {
	// SaveCycle persiste el resumen del ciclo y sus oportunidades.
	SaveCycle(ctx context.Context, cycleID string, opportunities []domain.Opportunity) error

	// GetHistory devuelve las oportunidades registradas en el rango de tiempo dado.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
