package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"go.uber.org/zap"
)

// Причины отказа
const (
	ReasonNoEffectiveGrant = "no effective grant"
	ReasonUnknownPrincipal = "unknown principal"
)

// Decision - результат проверки доступа
type Decision struct {
	Granted  bool               `json:"granted"`
	Override bool               `json:"override"` // администратор, доступы не проверялись
	Grant    *model.AccessGrant `json:"grant,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

func granted(grant *model.AccessGrant) *Decision {
	return &Decision{Granted: true, Grant: grant}
}

func denied(reason string) *Decision {
	return &Decision{Granted: false, Reason: reason}
}

// AccessResolver отвечает на вопрос "есть ли у пользователя доступ к подкурсу сейчас".
// Только чтение: статусы доступов не меняет.
type AccessResolver struct {
	grants  GrantStore
	catalog CatalogStore
	clock   Clock
	logger  *zap.Logger
}

func NewAccessResolver(grants GrantStore, catalog CatalogStore, clock Clock, logger *zap.Logger) *AccessResolver {
	if clock == nil {
		clock = SystemClock
	}
	return &AccessResolver{
		grants:  grants,
		catalog: catalog,
		clock:   clock,
		logger:  logger,
	}
}

// Resolve проверяет доступ к подкурсу в момент now.
// Несуществующий подкурс для не-администратора - отказ, а не ErrNotFound,
// чтобы не раскрывать наличие контента.
func (r *AccessResolver) Resolve(ctx context.Context, principal *model.User, subcourseID int64, now time.Time) (*Decision, error) {
	if principal == nil {
		return denied(ReasonUnknownPrincipal), nil
	}

	// Администратор проходит без поиска доступов
	if principal.IsAdmin() {
		return &Decision{Granted: true, Override: true}, nil
	}

	subcourse, err := r.catalog.GetSubcourseByID(ctx, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("get subcourse: %w", err)
	}
	if subcourse == nil {
		return denied(ReasonNoEffectiveGrant), nil
	}

	grants, err := r.grants.ListEffectiveByPrincipal(ctx, principal.ID, now)
	if err != nil {
		return nil, fmt.Errorf("list effective grants: %w", err)
	}

	// Доступы складываются: достаточно любого подходящего
	for _, g := range grants {
		if g.IsEffective(now) && g.Covers(subcourse) {
			return granted(g), nil
		}
	}

	r.logger.Debug("Access denied",
		zap.Int64("principal_id", principal.ID),
		zap.Int64("subcourse_id", subcourseID),
	)

	return denied(ReasonNoEffectiveGrant), nil
}

// ResolveAccess проверяет доступ к подкурсу на текущий момент
func (r *AccessResolver) ResolveAccess(ctx context.Context, principal *model.User, subcourseID int64) (*Decision, error) {
	return r.Resolve(ctx, principal, subcourseID, r.clock())
}

// ResolveLesson сводит урок к его подкурсу и проверяет доступ на текущий момент
func (r *AccessResolver) ResolveLesson(ctx context.Context, principal *model.User, lessonID int64) (*Decision, error) {
	if principal == nil {
		return denied(ReasonUnknownPrincipal), nil
	}
	if principal.IsAdmin() {
		return &Decision{Granted: true, Override: true}, nil
	}

	lesson, err := r.catalog.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return denied(ReasonNoEffectiveGrant), nil
	}

	return r.ResolveAccess(ctx, principal, lesson.SubcourseID)
}

// RequireAccess возвращает ErrPermissionDenied, если доступа к подкурсу нет
func (r *AccessResolver) RequireAccess(ctx context.Context, principal *model.User, subcourseID int64) error {
	decision, err := r.ResolveAccess(ctx, principal, subcourseID)
	if err != nil {
		return err
	}
	if !decision.Granted {
		return fmt.Errorf("subcourse %d: %s: %w", subcourseID, decision.Reason, model.ErrPermissionDenied)
	}
	return nil
}

// RequireLessonAccess возвращает ErrPermissionDenied, если доступа к уроку нет
func (r *AccessResolver) RequireLessonAccess(ctx context.Context, principal *model.User, lessonID int64) error {
	decision, err := r.ResolveLesson(ctx, principal, lessonID)
	if err != nil {
		return err
	}
	if !decision.Granted {
		return fmt.Errorf("lesson %d: %s: %w", lessonID, decision.Reason, model.ErrPermissionDenied)
	}
	return nil
}

// ============ Списки доступного контента ============

// AccessibleSubcourses получает подкурсы, доступные пользователю сейчас.
// Доступ к программе раскрывается в её текущие подкурсы. programID != nil - только эта программа.
func (r *AccessResolver) AccessibleSubcourses(ctx context.Context, principal *model.User, programID *int64) ([]*model.Subcourse, error) {
	if principal == nil {
		return []*model.Subcourse{}, nil
	}

	var programIDs, subcourseIDs []int64

	if principal.IsAdmin() {
		programs, err := r.catalog.ListPrograms(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		for _, p := range programs {
			programIDs = append(programIDs, p.ID)
		}
	} else {
		now := r.clock()
		grants, err := r.grants.ListEffectiveByPrincipal(ctx, principal.ID, now)
		if err != nil {
			return nil, fmt.Errorf("list effective grants: %w", err)
		}
		for _, g := range grants {
			if !g.IsEffective(now) {
				continue
			}
			if id, ok := g.ProgramID(); ok {
				programIDs = append(programIDs, id)
			}
			if id, ok := g.SubcourseID(); ok {
				subcourseIDs = append(subcourseIDs, id)
			}
		}
	}

	seen := make(map[int64]*model.Subcourse)
	for _, pid := range uniqueIDs(programIDs) {
		if programID != nil && pid != *programID {
			continue
		}
		subcourses, err := r.catalog.ListSubcoursesByProgram(ctx, pid, false)
		if err != nil {
			return nil, fmt.Errorf("list program subcourses: %w", err)
		}
		for _, sc := range subcourses {
			seen[sc.ID] = sc
		}
	}

	direct, err := r.catalog.ListSubcoursesByIDs(ctx, uniqueIDs(subcourseIDs))
	if err != nil {
		return nil, fmt.Errorf("list granted subcourses: %w", err)
	}
	for _, sc := range direct {
		if programID != nil && sc.ProgramID != *programID {
			continue
		}
		seen[sc.ID] = sc
	}

	result := make([]*model.Subcourse, 0, len(seen))
	for _, sc := range seen {
		result = append(result, sc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ProgramID != result[j].ProgramID {
			return result[i].ProgramID < result[j].ProgramID
		}
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// AccessibleProgramIDs получает ID программ, к которым есть хотя бы частичный доступ
func (r *AccessResolver) AccessibleProgramIDs(ctx context.Context, principal *model.User) ([]int64, error) {
	if principal == nil {
		return []int64{}, nil
	}

	var ids []int64

	if principal.IsAdmin() {
		programs, err := r.catalog.ListPrograms(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		for _, p := range programs {
			ids = append(ids, p.ID)
		}
	} else {
		subcourses, err := r.AccessibleSubcourses(ctx, principal, nil)
		if err != nil {
			return nil, err
		}
		for _, sc := range subcourses {
			ids = append(ids, sc.ProgramID)
		}

		// Программа без подкурсов тоже считается, если доступ выдан на неё целиком
		now := r.clock()
		grants, err := r.grants.ListEffectiveByPrincipal(ctx, principal.ID, now)
		if err != nil {
			return nil, fmt.Errorf("list effective grants: %w", err)
		}
		for _, g := range grants {
			if id, ok := g.ProgramID(); ok && g.IsEffective(now) {
				ids = append(ids, id)
			}
		}
	}

	ids = uniqueIDs(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
