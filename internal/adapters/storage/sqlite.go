package storage

// sqlite.go — histórico de ciclos en SQLite (pure Go, sin CGo).
//
// Estrategia:
//   - `cycles`: una fila de resumen por ciclo (total, mejor profit).
//   - `opportunities`: una fila por oportunidad detectada, con el cycle_id
//     como correlación. Es un registro de auditoría append-only: el engine
//     nunca lo relee para decidir nada — ninguna identidad de oportunidad
//     sobrevive entre ciclos dentro del detector.
//   - Prune automático al arrancar: filas con más de 14 días se descartan.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen ligero por ciclo de scan
CREATE TABLE IF NOT EXISTS cycles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id    TEXT     NOT NULL,
    scanned_at  DATETIME NOT NULL,
    total       INTEGER  NOT NULL DEFAULT 0,
    best_profit REAL     NOT NULL DEFAULT 0
);

-- Una fila por oportunidad detectada
CREATE TABLE IF NOT EXISTS opportunities (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id     TEXT     NOT NULL,
    instrument   TEXT     NOT NULL,
    buy_venue    TEXT     NOT NULL,
    buy_price    REAL     NOT NULL,
    buy_kind     TEXT     NOT NULL,
    sell_venue   TEXT     NOT NULL,
    sell_price   REAL     NOT NULL,
    sell_kind    TEXT     NOT NULL,
    profit       REAL     NOT NULL,
    size         REAL,
    detected_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at  ON cycles(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_cycle  ON opportunities(cycle_id);
CREATE INDEX IF NOT EXISTS idx_opp_at     ON opportunities(detected_at DESC);
`

const retention = 14 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCycle persiste el resumen del ciclo y una fila por oportunidad, en una
// sola transacción — un interrupt nunca deja un ciclo a medio guardar.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, cycleID string, opportunities []domain.Opportunity) error {
	now := time.Now().UTC()

	bestProfit := 0.0
	if len(opportunities) > 0 {
		bestProfit = opportunities[0].Profit // ya vienen ordenadas por profit desc
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cycles (cycle_id, scanned_at, total, best_profit) VALUES (?, ?, ?, ?)`,
		cycleID, now, len(opportunities), bestProfit,
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert cycle: %w", err)
	}

	for _, opp := range opportunities {
		var size any
		if opp.Size.Defined {
			size = opp.Size.Amount
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO opportunities
			   (cycle_id, instrument, buy_venue, buy_price, buy_kind,
			    sell_venue, sell_price, sell_kind, profit, size, detected_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			opp.CycleID, opp.Instrument.Symbol(),
			opp.BuyVenue, opp.BuyPrice, opp.BuyKind.String(),
			opp.SellVenue, opp.SellPrice, opp.SellKind.String(),
			opp.Profit, size, opp.DetectedAt.UTC(),
		); err != nil {
			return fmt.Errorf("storage.SaveCycle: insert opportunity: %w", err)
		}
	}

	return tx.Commit()
}

// GetHistory devuelve las oportunidades registradas en el rango dado,
// ordenadas por profit descendente.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cycle_id, instrument, buy_venue, buy_price, buy_kind,
		        sell_venue, sell_price, sell_kind, profit, size, detected_at
		   FROM opportunities
		  WHERE detected_at BETWEEN ? AND ?
		  ORDER BY profit DESC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		var symbol, buyKind, sellKind string
		var size sql.NullFloat64
		if err := rows.Scan(
			&opp.CycleID, &symbol, &opp.BuyVenue, &opp.BuyPrice, &buyKind,
			&opp.SellVenue, &opp.SellPrice, &sellKind, &opp.Profit, &size, &opp.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan: %w", err)
		}
		if inst, ok := domain.ParseInstrument(symbol); ok {
			opp.Instrument = inst
		}
		opp.BuyKind = parseKind(buyKind)
		opp.SellKind = parseKind(sellKind)
		if size.Valid {
			opp.Size = domain.DefinedSize(size.Float64)
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra filas más viejas que la retención. Best effort: un fallo
// solo se ignora, la base sigue siendo usable.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	_, _ = s.db.ExecContext(ctx, `DELETE FROM cycles WHERE scanned_at < ?`, cutoff)
	_, _ = s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE detected_at < ?`, cutoff)
}

// parseKind mapea la etiqueta guardada de vuelta al enum.
func parseKind(s string) domain.MarketKind {
	switch s {
	case "spot":
		return domain.KindSpot
	case "futures":
		return domain.KindFutures
	case "swap":
		return domain.KindSwap
	default:
		return domain.KindUnknown
	}
}
