package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo almacenamiento append-only del libro de stock. No hay UPDATE ni
// DELETE sobre stock_ledger: la historia es inmutable.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// CreateBatch inserta las entradas de un movimiento. Dentro de una transacción
// el lote es atómico junto con el resto de efectos.
func (r *LedgerRepo) CreateBatch(ctx context.Context, entries []*entity.LedgerEntry) error {
	for _, e := range entries {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_ledger (id, organization_id, product_id, product_name, product_sku, movement_type, reference, location_id, location_from_id, location_to_id, quantity, quantity_change, balance_after, ts, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			e.ID, e.OrganizationID, e.ProductID, e.ProductName, e.ProductSKU,
			e.MovementType, e.Reference, e.LocationID, e.LocationFromID, e.LocationToID,
			e.Quantity, e.QuantityChange, e.BalanceAfter, e.Timestamp, e.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	return nil
}

// LocationBalance SUM(quantity_change) para (org, producto, ubicación). Sin
// filas el saldo es 0; puede ser negativo.
func (r *LedgerRepo) LocationBalance(ctx context.Context, orgID, productID, locationID string) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0) FROM stock_ledger
		WHERE organization_id = $1 AND product_id = $2 AND location_id = $3`,
		orgID, productID, locationID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("location balance: %w", err)
	}
	return balance, nil
}

// List historial, más reciente primero, con filtros opcionales.
func (r *LedgerRepo) List(ctx context.Context, orgID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, organization_id, product_id, product_name, product_sku, movement_type, reference, location_id, location_from_id, location_to_id, quantity, quantity_change, balance_after, ts, created_by
		FROM stock_ledger WHERE organization_id = $1`
	args := []any{orgID}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(` AND product_id = $%d`, len(args))
	}
	if f.MovementType != "" {
		args = append(args, f.MovementType)
		query += fmt.Sprintf(` AND movement_type = $%d`, len(args))
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY ts DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.ProductID, &e.ProductName, &e.ProductSKU,
			&e.MovementType, &e.Reference, &e.LocationID, &e.LocationFromID, &e.LocationToID,
			&e.Quantity, &e.QuantityChange, &e.BalanceAfter, &e.Timestamp, &e.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// BalancesByLocation saldo de un producto por ubicación, solo netos positivos.
func (r *LedgerRepo) BalancesByLocation(ctx context.Context, orgID, productID string) ([]repository.LocationBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT location_id, SUM(quantity_change) AS balance
		FROM stock_ledger
		WHERE organization_id = $1 AND product_id = $2 AND location_id <> ''
		GROUP BY location_id
		HAVING SUM(quantity_change) > 0
		ORDER BY location_id`,
		orgID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("balances by location: %w", err)
	}
	defer rows.Close()

	var out []repository.LocationBalance
	for rows.Next() {
		var b repository.LocationBalance
		if err := rows.Scan(&b.LocationID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan location balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BalancesByProduct saldo de una ubicación por producto, solo netos positivos.
func (r *LedgerRepo) BalancesByProduct(ctx context.Context, orgID, locationID string) ([]repository.ProductBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(quantity_change) AS balance
		FROM stock_ledger
		WHERE organization_id = $1 AND location_id = $2
		GROUP BY product_id
		HAVING SUM(quantity_change) > 0
		ORDER BY product_id`,
		orgID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("balances by product: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductBalance
	for rows.Next() {
		var b repository.ProductBalance
		if err := rows.Scan(&b.ProductID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan product balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
