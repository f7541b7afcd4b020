package notify

// audit.go — audit log append-only, una línea legible por oportunidad.
//
// Cada ciclo se escribe como un solo buffer seguido de un flush, así un
// interrupt entre ciclos nunca deja el archivo con una línea a medio
// escribir.

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// AuditLog implementa ports.Notifier sobre un archivo append-only.
type AuditLog struct {
	mu   sync.Mutex
	file *os.File
}

// NewAuditLog abre (o crea) el archivo de auditoría en modo append.
func NewAuditLog(path string) (*AuditLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("notify.NewAuditLog: open %q: %w", path, err)
	}
	return &AuditLog{file: f}, nil
}

// Notify anexa una línea por oportunidad con todo el contexto del trade.
func (a *AuditLog) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, opp := range opportunities {
		fmt.Fprintf(&sb, "[%s] cycle=%s %s buy=%s(%s)@%g sell=%s(%s)@%g size=%s profit=%.2f%%\n",
			opp.DetectedAt.Format(time.RFC3339),
			opp.CycleID,
			opp.Instrument.Symbol(),
			opp.BuyVenue, opp.BuyKind, opp.BuyPrice,
			opp.SellVenue, opp.SellKind, opp.SellPrice,
			opp.Size,
			opp.ProfitPct(),
		)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("notify.AuditLog: write: %w", err)
	}
	return a.file.Sync()
}

// Close cierra el archivo subyacente.
func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

// Multi agrupa varios notifiers en uno: cada sink recibe el result set
// completo del ciclo. Errores individuales se acumulan pero no cortan a los
// demás sinks.
type Multi struct {
	sinks []Notifier
}

// Notifier es el contrato local que cumplen Console y AuditLog.
type Notifier interface {
	Notify(ctx context.Context, opportunities []domain.Opportunity) error
}

// NewMulti crea un notificador compuesto.
func NewMulti(sinks ...Notifier) *Multi {
	return &Multi{sinks: sinks}
}

// Notify reparte el result set a todos los sinks.
func (m *Multi) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	var firstErr error
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, opportunities); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
