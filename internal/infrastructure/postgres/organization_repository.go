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

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste una organización.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO organizations (id, name, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.Name, o.CreatedAt, o.UpdatedAt, o.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización, o nil.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	var o entity.Organization
	err := r.q.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at, created_by
		FROM organizations WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}
