package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const grantColumns = `id, principal_id, program_id, subcourse_id, status, valid_from, valid_until, granted_by, notes, created_at, updated_at`

// GrantRepository хранит доступы пользователей к программам и подкурсам
type GrantRepository struct {
	*base.Repository
}

func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет новый доступ. ID генерируется, если не задан.
func (r *GrantRepository) Create(ctx context.Context, g *model.AccessGrant) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	programID, subcourseID := model.ScopeColumns(g.Scope)
	if programID == nil && subcourseID == nil {
		return model.ErrInvalidScope
	}

	query := `
		INSERT INTO access_grants (id, principal_id, program_id, subcourse_id, status, valid_from, valid_until, granted_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		g.ID,
		g.PrincipalID,
		programID,
		subcourseID,
		g.Status,
		g.ValidFrom,
		g.ValidUntil,
		g.GrantedBy,
		g.Notes,
	).Scan(&g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return fmt.Errorf("create grant: %w", model.ErrNotFound)
		}
		// access_grants_exactly_one_scope
		if base.IsCheckViolation(err) {
			return fmt.Errorf("create grant: %w", model.ErrInvalidScope)
		}
		return fmt.Errorf("create grant: %w", err)
	}

	return nil
}

// GetByID получает доступ по ID
func (r *GrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM access_grants WHERE id = $1`

	g, err := scanGrant(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grant by id: %w", err)
	}

	return g, nil
}

// Update сохраняет статус и окно действия доступа
func (r *GrantRepository) Update(ctx context.Context, g *model.AccessGrant) error {
	query := `
		UPDATE access_grants
		SET status = $1, valid_until = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, g.Status, g.ValidUntil, g.Notes, g.ID).Scan(&g.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update grant %s: %w", g.ID, model.ErrNotFound)
		}
		return fmt.Errorf("update grant: %w", err)
	}

	return nil
}

// SetStatus меняет статус одного доступа без пересчёта окна.
// Возвращает false, если доступа с таким ID нет.
func (r *GrantRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.GrantStatus) (bool, error) {
	query := `
		UPDATE access_grants
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("set grant status: %w", err)
	}

	return affected > 0, nil
}

// ExpireStale переводит active доступы с прошедшим valid_until в expired
func (r *GrantRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE access_grants
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND valid_until IS NOT NULL AND valid_until < $1
	`

	affected, err := r.ExecAffected(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale grants: %w", err)
	}

	return affected, nil
}

// FindByScope получает доступы пользователя с точным совпадением scope
func (r *GrantRepository) FindByScope(ctx context.Context, principalID int64, scope model.Scope) ([]*model.AccessGrant, error) {
	programID, subcourseID := model.ScopeColumns(scope)
	if programID == nil && subcourseID == nil {
		return nil, model.ErrInvalidScope
	}

	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE principal_id = $1
		  AND program_id IS NOT DISTINCT FROM $2
		  AND subcourse_id IS NOT DISTINCT FROM $3
		ORDER BY created_at DESC
	`

	return r.listGrants(ctx, query, principalID, programID, subcourseID)
}

// ListByPrincipal получает все доступы пользователя, новые первыми
func (r *GrantRepository) ListByPrincipal(ctx context.Context, principalID int64) ([]*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE principal_id = $1
		ORDER BY created_at DESC
	`

	return r.listGrants(ctx, query, principalID)
}

// ListEffectiveByPrincipal получает доступы, действующие в момент now.
// Persisted expired не учитывается: решает только окно и revoked.
func (r *GrantRepository) ListEffectiveByPrincipal(ctx context.Context, principalID int64, now time.Time) ([]*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE principal_id = $1
		  AND status <> 'revoked'
		  AND valid_from <= $2
		  AND (valid_until IS NULL OR valid_until >= $2)
		ORDER BY created_at DESC
	`

	return r.listGrants(ctx, query, principalID, now)
}

// Delete удаляет доступ
func (r *GrantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM access_grants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete grant %s: %w", id, model.ErrNotFound)
	}

	return nil
}

func (r *GrantRepository) listGrants(ctx context.Context, query string, args ...interface{}) ([]*model.AccessGrant, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []*model.AccessGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}

	return grants, nil
}

func scanGrant(row pgx.Row) (*model.AccessGrant, error) {
	var (
		g           model.AccessGrant
		programID   *int64
		subcourseID *int64
	)

	err := row.Scan(
		&g.ID,
		&g.PrincipalID,
		&programID,
		&subcourseID,
		&g.Status,
		&g.ValidFrom,
		&g.ValidUntil,
		&g.GrantedBy,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// CHECK-ограничение гарантирует ровно одно из двух
	scope, err := model.NewScope(programID, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("grant %s: %w", g.ID, err)
	}
	g.Scope = scope

	return &g, nil
}
