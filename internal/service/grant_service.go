package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateGrantInput - данные для выдачи доступа
type CreateGrantInput struct {
	PrincipalID int64       `json:"principal_id" validate:"required,gt=0"`
	Scope       model.Scope `json:"-"`
	ValidFrom   time.Time   `json:"valid_from"` // нулевое значение - сейчас
	ValidUntil  *time.Time  `json:"valid_until"`
	GrantedBy   *int64      `json:"granted_by" validate:"omitempty,gt=0"`
	Notes       string      `json:"notes" validate:"max=2000"`
}

// GrantService управляет доступами пользователей к программам и подкурсам
type GrantService struct {
	grants       GrantStore
	catalog      CatalogStore
	users        UserStore
	strictWindow bool
	clock        Clock
	logger       *zap.Logger
}

// NewGrantService создаёт сервис доступов.
// strictWindow - отклонять valid_until < valid_from (GRANT_WINDOW_CHECK=strict).
func NewGrantService(
	grants GrantStore,
	catalog CatalogStore,
	users UserStore,
	strictWindow bool,
	clock Clock,
	logger *zap.Logger,
) *GrantService {
	if clock == nil {
		clock = SystemClock
	}
	return &GrantService{
		grants:       grants,
		catalog:      catalog,
		users:        users,
		strictWindow: strictWindow,
		clock:        clock,
		logger:       logger,
	}
}

// ============ Создание ============

// CreateGrant выдаёт доступ. Ничего не записывает, если проверка не прошла.
func (s *GrantService) CreateGrant(ctx context.Context, in CreateGrantInput) (*model.AccessGrant, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if in.Scope == nil {
		return nil, model.ErrInvalidScope
	}

	now := s.clock()
	validFrom := in.ValidFrom
	if validFrom.IsZero() {
		validFrom = now
	}

	if s.strictWindow && in.ValidUntil != nil && in.ValidUntil.Before(validFrom) {
		return nil, model.ErrInvalidWindow
	}

	// Проверяем, что пользователь существует
	principal, err := s.users.GetByID(ctx, in.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("get principal: %w", err)
	}
	if principal == nil {
		return nil, fmt.Errorf("principal %d: %w", in.PrincipalID, model.ErrNotFound)
	}

	// Проверяем, что программа или подкурс существует
	if err := s.checkScopeExists(ctx, in.Scope); err != nil {
		return nil, err
	}

	grant := &model.AccessGrant{
		PrincipalID: in.PrincipalID,
		Scope:       in.Scope,
		Status:      model.GrantActive,
		ValidFrom:   validFrom,
		ValidUntil:  in.ValidUntil,
		GrantedBy:   in.GrantedBy,
		Notes:       in.Notes,
	}
	grant.Normalize(now)

	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, fmt.Errorf("create grant: %w", err)
	}

	programID, subcourseID := model.ScopeColumns(grant.Scope)
	s.logger.Info("Grant created",
		zap.String("grant_id", grant.ID.String()),
		zap.Int64("principal_id", grant.PrincipalID),
		zap.Int64p("program_id", programID),
		zap.Int64p("subcourse_id", subcourseID),
		zap.String("status", string(grant.Status)),
	)

	return grant, nil
}

func (s *GrantService) checkScopeExists(ctx context.Context, scope model.Scope) error {
	switch sc := scope.(type) {
	case model.ProgramScope:
		program, err := s.catalog.GetProgramByID(ctx, sc.ProgramID)
		if err != nil {
			return fmt.Errorf("get program: %w", err)
		}
		if program == nil {
			return fmt.Errorf("program %d: %w", sc.ProgramID, model.ErrNotFound)
		}
	case model.SubcourseScope:
		subcourse, err := s.catalog.GetSubcourseByID(ctx, sc.SubcourseID)
		if err != nil {
			return fmt.Errorf("get subcourse: %w", err)
		}
		if subcourse == nil {
			return fmt.Errorf("subcourse %d: %w", sc.SubcourseID, model.ErrNotFound)
		}
	default:
		return model.ErrInvalidScope
	}
	return nil
}

// ============ Изменение статуса ============

// UpdateStatus меняет статус одного доступа. Переходы не ограничены;
// active с прошедшим valid_until сохраняется как expired, остальное пишется как запрошено.
func (s *GrantService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.GrantStatus) (*model.AccessGrant, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("grant status %q: %w", status, model.ErrInvalidStatus)
	}

	grant, err := s.getGrant(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := grant.Status
	grant.Status = status
	grant.Normalize(s.clock())

	if err := s.grants.Update(ctx, grant); err != nil {
		return nil, fmt.Errorf("update grant: %w", err)
	}

	s.logger.Info("Grant status updated",
		zap.String("grant_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("requested", string(status)),
		zap.String("to", string(grant.Status)),
	)

	return grant, nil
}

// BulkSetStatus ставит статус каждому доступу из списка независимо.
// Несуществующие ID пропускаются, возвращается число изменённых записей.
func (s *GrantService) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status model.GrantStatus) (int64, error) {
	if !status.IsValid() {
		return 0, fmt.Errorf("grant status %q: %w", status, model.ErrInvalidStatus)
	}

	var affected int64
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return affected, err
		}

		ok, err := s.grants.SetStatus(ctx, id, status)
		if err != nil {
			s.logger.Warn("Failed to set grant status, skipping",
				zap.String("grant_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			affected++
		}
	}

	s.logger.Info("Grant statuses updated in bulk",
		zap.String("status", string(status)),
		zap.Int("requested", len(ids)),
		zap.Int64("affected", affected),
	)

	return affected, nil
}

// BulkActivate активирует доступы
func (s *GrantService) BulkActivate(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.BulkSetStatus(ctx, ids, model.GrantActive)
}

// BulkRevoke отзывает доступы
func (s *GrantService) BulkRevoke(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.BulkSetStatus(ctx, ids, model.GrantRevoked)
}

// ExtendGrant меняет конец окна действия. nil - бессрочно.
func (s *GrantService) ExtendGrant(ctx context.Context, id uuid.UUID, validUntil *time.Time) (*model.AccessGrant, error) {
	grant, err := s.getGrant(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.strictWindow && validUntil != nil && validUntil.Before(grant.ValidFrom) {
		return nil, model.ErrInvalidWindow
	}

	now := s.clock()
	grant.ValidUntil = validUntil

	// Продление возвращает истёкший доступ в active, отозванный остаётся отозванным
	if grant.Status == model.GrantExpired && !grant.IsPastDue(now) {
		grant.Status = model.GrantActive
	}
	grant.Normalize(now)

	if err := s.grants.Update(ctx, grant); err != nil {
		return nil, fmt.Errorf("update grant: %w", err)
	}

	s.logger.Info("Grant window changed",
		zap.String("grant_id", id.String()),
		zap.Timep("valid_until", validUntil),
		zap.String("status", string(grant.Status)),
	)

	return grant, nil
}

// ============ Просроченные ============

// SweepExpired переводит active доступы с прошедшим valid_until в expired.
// Идемпотентно: повторный вызов без изменений вернёт 0.
func (s *GrantService) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.grants.ExpireStale(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("sweep expired grants: %w", err)
	}

	if count > 0 {
		s.logger.Info("Expired grants marked", zap.Int64("count", count))
	}

	return count, nil
}

// ============ Чтение и удаление ============

// GetGrant получает доступ по ID
func (s *GrantService) GetGrant(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	return s.getGrant(ctx, id)
}

// FindGrants получает доступы пользователя с точным совпадением scope (без раскрытия программ)
func (s *GrantService) FindGrants(ctx context.Context, principalID int64, scope model.Scope) ([]*model.AccessGrant, error) {
	if scope == nil {
		return nil, model.ErrInvalidScope
	}

	grants, err := s.grants.FindByScope(ctx, principalID, scope)
	if err != nil {
		return nil, fmt.Errorf("find grants: %w", err)
	}

	return grants, nil
}

// ListGrants получает все доступы пользователя
func (s *GrantService) ListGrants(ctx context.Context, principalID int64) ([]*model.AccessGrant, error) {
	grants, err := s.grants.ListByPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	return grants, nil
}

// DeleteGrant удаляет доступ
func (s *GrantService) DeleteGrant(ctx context.Context, id uuid.UUID) error {
	if err := s.grants.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	s.logger.Info("Grant deleted", zap.String("grant_id", id.String()))
	return nil
}

func (s *GrantService) getGrant(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	grant, err := s.grants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get grant: %w", err)
	}
	if grant == nil {
		return nil, fmt.Errorf("grant %s: %w", id, model.ErrNotFound)
	}
	return grant, nil
}
