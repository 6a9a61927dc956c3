package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, organization_id, type, status, reference, partner_name, source_location_id, destination_location_id, scheduled_date, notes, created_at, updated_at, created_by, executed_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// Las líneas viven en movement_lines y se cargan junto con la cabecera.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrganizationID, m.Type, m.Status, m.Reference, m.PartnerName,
		m.SourceLocationID, m.DestinationLocationID, m.ScheduledDate, m.Notes,
		m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.ExecutedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return r.insertLines(ctx, m)
}

// GetByID carga un movimiento con sus líneas, o nil.
func (r *MovementRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE organization_id = $1 AND id = $2`
	return r.getOne(ctx, query, orgID, id)
}

// GetForUpdate carga el movimiento bloqueando su fila hasta el fin de la
// transacción: dos execute concurrentes del mismo movimiento se serializan aquí.
func (r *MovementRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE organization_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, orgID, id)
}

// List lista movimientos, más recientes primero, con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE organization_id = $1`
	args := []any{orgID}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range out {
		if err := r.loadLines(ctx, m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update reescribe cabecera y líneas.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE stock_movements
		SET status = $3, reference = $4, partner_name = $5, scheduled_date = $6, notes = $7, updated_at = $8
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		m.OrganizationID, m.ID, m.Status, m.Reference, m.PartnerName, m.ScheduledDate, m.Notes, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE movement_id = $1`, m.ID); err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	return r.insertLines(ctx, m)
}

// MarkExecuted transición condicional a done: solo gana quien encuentra el
// movimiento todavía no ejecutado. Devuelve false si otro llegó primero.
func (r *MovementRepo) MarkExecuted(ctx context.Context, orgID, id string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_movements
		SET status = $4, executed_at = $3, updated_at = $3
		WHERE organization_id = $1 AND id = $2 AND status <> $4`,
		orgID, id, at, entity.MovementStatusDone,
	)
	if err != nil {
		return false, fmt.Errorf("mark executed: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// CountPending movimientos de un tipo aún no terminales.
func (r *MovementRepo) CountPending(ctx context.Context, orgID, movType string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM stock_movements
		WHERE organization_id = $1 AND type = $2 AND status NOT IN ($3, $4)`,
		orgID, movType, entity.MovementStatusDone, entity.MovementStatusCanceled,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) getOne(ctx context.Context, query, orgID, id string) (*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	m, err := scanMovement(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := r.loadLines(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovementRepo) insertLines(ctx context.Context, m *entity.Movement) error {
	for i, l := range m.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO movement_lines (movement_id, position, product_id, product_name, product_sku, quantity, unit_of_measure)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, i, l.ProductID, l.ProductName, l.ProductSKU, l.Quantity, l.UnitOfMeasure,
		)
		if err != nil {
			return fmt.Errorf("insert movement line: %w", err)
		}
	}
	return nil
}

func (r *MovementRepo) loadLines(ctx context.Context, m *entity.Movement) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, product_sku, quantity, unit_of_measure
		FROM movement_lines WHERE movement_id = $1 ORDER BY position`,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("load movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.ProductSKU, &l.Quantity, &l.UnitOfMeasure); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		m.Lines = append(m.Lines, l)
	}
	return rows.Err()
}

func scanMovement(rows pgx.Rows) (*entity.Movement, error) {
	var m entity.Movement
	err := rows.Scan(
		&m.ID, &m.OrganizationID, &m.Type, &m.Status, &m.Reference, &m.PartnerName,
		&m.SourceLocationID, &m.DestinationLocationID, &m.ScheduledDate, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.ExecutedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}
