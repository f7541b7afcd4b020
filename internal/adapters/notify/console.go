package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier imprimiendo la tabla de oportunidades
// del ciclo. La tabla reemplaza conceptualmente a la del ciclo anterior:
// es un render completo cada vez, no un merge incremental.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Notify imprime la tabla del ciclo, o una línea si no hubo oportunidades.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	now := time.Now().Format("15:04:05")

	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found\n", now)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %d arbitrage opportunities\n", now, len(opportunities))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Pair", "Buy", "Buy Price", "Sell", "Sell Price", "Profit %", "Size")

	for i, opp := range opportunities {
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Instrument.Symbol(),
			fmt.Sprintf("%s (%s)", opp.BuyVenue, opp.BuyKind),
			fmt.Sprintf("%g", opp.BuyPrice),
			fmt.Sprintf("%s (%s)", opp.SellVenue, opp.SellKind),
			fmt.Sprintf("%g", opp.SellPrice),
			fmt.Sprintf("%.2f", opp.ProfitPct()),
			opp.Size.String(),
		)
	}

	table.Render()
	return nil
}
