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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (id, organization_id, name, code, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.OrganizationID, w.Name, w.Code, w.Address, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega de la organización, o nil.
func (r *WarehouseRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `
		SELECT id, organization_id, name, code, address, is_active, created_at, updated_at
		FROM warehouses WHERE organization_id = $1 AND id = $2`,
		orgID, id,
	).Scan(&w.ID, &w.OrganizationID, &w.Name, &w.Code, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List lista las bodegas de la organización.
func (r *WarehouseRepo) List(ctx context.Context, orgID string) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, organization_id, name, code, address, is_active, created_at, updated_at
		FROM warehouses WHERE organization_id = $1 ORDER BY created_at`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.Code, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
