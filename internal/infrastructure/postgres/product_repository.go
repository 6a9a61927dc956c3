package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, organization_id, sku, name, category, description, unit_of_measure, current_stock, reorder_level, created_at, updated_at, created_by`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.SKU, p.Name, p.Category, p.Description,
		p.UnitOfMeasure, p.CurrentStock, p.ReorderLevel, p.CreatedAt, p.UpdatedAt, p.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización, o nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, id), "get product")
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
// Es la sección crítica por (organización, producto) del motor de stock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, id), "lock product")
}

// GetBySKU obtiene un producto por SKU dentro de la organización.
func (r *ProductRepo) GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, sku), "get product by sku")
}

// List lista productos con filtro opcional por categoría y paginación.
func (r *ProductRepo) List(ctx context.Context, orgID, category string, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1`
	args := []any{orgID}
	if category != "" {
		query += ` AND category = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, category, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search busca por nombre o SKU, subcadena sin distinción de mayúsculas.
func (r *ProductRepo) Search(ctx context.Context, orgID, q string, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE organization_id = $1 AND (name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY name LIMIT $3`
	rows, err := r.q.Query(ctx, query, orgID, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListLowStock productos en o por debajo de su punto de reorden.
func (r *ProductRepo) ListLowStock(ctx context.Context, orgID string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE organization_id = $1 AND current_stock <= reorder_level
		ORDER BY current_stock ASC`
	rows, err := r.q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update actualiza los campos de catálogo. El stock actual no se toca por aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $3, name = $4, category = $5, description = $6, unit_of_measure = $7, reorder_level = $8, updated_at = $9
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.OrganizationID, p.ID, p.SKU, p.Name, p.Category, p.Description,
		p.UnitOfMeasure, p.ReorderLevel, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el nuevo total cacheado. Solo el motor lo llama, con la fila ya bloqueada.
func (r *ProductRepo) UpdateStock(ctx context.Context, orgID, id string, newStock int64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $3, updated_at = now() WHERE organization_id = $1 AND id = $2`,
		orgID, id, newStock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina el producto de la organización.
func (r *ProductRepo) Delete(ctx context.Context, orgID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats agregados de catálogo para el dashboard, en una sola consulta.
func (r *ProductRepo) Stats(ctx context.Context, orgID string) (repository.ProductStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE current_stock <= reorder_level),
		       COUNT(*) FILTER (WHERE current_stock <= 0),
		       COALESCE(SUM(current_stock), 0)
		FROM products WHERE organization_id = $1`
	var s repository.ProductStats
	err := r.q.QueryRow(ctx, query, orgID).Scan(&s.TotalProducts, &s.LowStockItems, &s.OutOfStockItems, &s.TotalUnits)
	if err != nil {
		return repository.ProductStats{}, fmt.Errorf("product stats: %w", err)
	}
	return s, nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Category, &p.Description,
		&p.UnitOfMeasure, &p.CurrentStock, &p.ReorderLevel, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Category, &p.Description,
			&p.UnitOfMeasure, &p.CurrentStock, &p.ReorderLevel, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
