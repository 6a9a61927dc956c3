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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (id, organization_id, warehouse_id, name, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.OrganizationID, l.WarehouseID, l.Name, l.Type, l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación de la organización, o nil.
func (r *LocationRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `
		SELECT id, organization_id, warehouse_id, name, type, created_at
		FROM locations WHERE organization_id = $1 AND id = $2`,
		orgID, id,
	).Scan(&l.ID, &l.OrganizationID, &l.WarehouseID, &l.Name, &l.Type, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List todas las ubicaciones de la organización.
func (r *LocationRepo) List(ctx context.Context, orgID string) ([]*entity.Location, error) {
	return r.list(ctx, `
		SELECT id, organization_id, warehouse_id, name, type, created_at
		FROM locations WHERE organization_id = $1 ORDER BY created_at`,
		orgID,
	)
}

// ListByWarehouse ubicaciones de una bodega.
func (r *LocationRepo) ListByWarehouse(ctx context.Context, orgID, warehouseID string) ([]*entity.Location, error) {
	return r.list(ctx, `
		SELECT id, organization_id, warehouse_id, name, type, created_at
		FROM locations WHERE organization_id = $1 AND warehouse_id = $2 ORDER BY created_at`,
		orgID, warehouseID,
	)
}

func (r *LocationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.OrganizationID, &l.WarehouseID, &l.Name, &l.Type, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
