package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del motor de inventario, expuestos en /metrics.
var (
	// MovementsExecuted movimientos transicionados a done, por tipo.
	MovementsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockmaster",
		Name:      "movements_executed_total",
		Help:      "Movimientos de stock ejecutados, por tipo.",
	}, []string{"type"})

	// LedgerEntriesPosted entradas escritas en el libro de stock.
	LedgerEntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stockmaster",
		Name:      "ledger_entries_posted_total",
		Help:      "Entradas append-only escritas en el libro de stock.",
	})

	// Reconciliations conteos físicos reconciliados contra el libro.
	Reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stockmaster",
		Name:      "inventory_reconciliations_total",
		Help:      "Reconciliaciones de inventario ejecutadas.",
	})

	// ExecutionFailures ejecuciones rechazadas o fallidas, por motivo.
	ExecutionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockmaster",
		Name:      "movement_execution_failures_total",
		Help:      "Ejecuciones de movimiento fallidas, por motivo.",
	}, []string{"reason"})
)
