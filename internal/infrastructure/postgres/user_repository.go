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

var _ repository.UserRepository = (*UserRepo)(nil)

// organization_id y role son NULL hasta que el usuario entra a una
// organización; hacia la entidad se proyectan como cadena vacía.
const userColumns = `id, COALESCE(organization_id, ''), email, full_name, password_hash, COALESCE(role, ''), status, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario. El email es único global.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, organization_id, email, full_name, password_hash, role, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`,
		u.ID, u.OrganizationID, u.Email, u.FullName, u.PasswordHash, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario, o nil.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), "get user")
}

// FindByEmail obtiene un usuario por email, o nil.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), "find user by email")
}

// ListByOrganization miembros de una organización.
func (r *UserRepo) ListByOrganization(ctx context.Context, orgID string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE organization_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// SetOrganization asigna organización y rol.
func (r *UserRepo) SetOrganization(ctx context.Context, userID, orgID, role string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE users SET organization_id = $2, role = $3, updated_at = now() WHERE id = $1`,
		userID, orgID, role,
	)
	if err != nil {
		return fmt.Errorf("set organization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RemoveFromOrganization desvincula al usuario si pertenece a esa organización.
func (r *UserRepo) RemoveFromOrganization(ctx context.Context, userID, orgID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE users SET organization_id = NULL, role = NULL, updated_at = now()
		WHERE id = $1 AND organization_id = $2`,
		userID, orgID,
	)
	if err != nil {
		return fmt.Errorf("remove from organization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateRole cambia el rol de un miembro de la organización.
func (r *UserRepo) UpdateRole(ctx context.Context, userID, orgID, role string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE users SET role = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2`,
		userID, orgID, role,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
