package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
)

// ============ Хранилище доступов ============

// memGrants повторяет запросы repository.GrantRepository в памяти.
// При изменении SQL там нужно поправить и соответствующий метод здесь.
type memGrants struct {
	mu     sync.Mutex
	grants map[uuid.UUID]*model.AccessGrant
	order  []uuid.UUID
}

func newMemGrants() *memGrants {
	return &memGrants{grants: make(map[uuid.UUID]*model.AccessGrant)}
}

func (m *memGrants) Create(ctx context.Context, g *model.AccessGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	m.grants[g.ID] = &cp
	m.order = append(m.order, g.ID)
	return nil
}

func (m *memGrants) GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *memGrants) Update(ctx context.Context, g *model.AccessGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grants[g.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *g
	m.grants[g.ID] = &cp
	return nil
}

// SetStatus: UPDATE ... WHERE id = $2, false при 0 затронутых строк
func (m *memGrants) SetStatus(ctx context.Context, id uuid.UUID, status model.GrantStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[id]
	if !ok {
		return false, nil
	}
	g.Status = status
	return true, nil
}

// ExpireStale: WHERE status = 'active' AND valid_until IS NOT NULL AND valid_until < $1
func (m *memGrants) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, g := range m.grants {
		if g.Status == model.GrantActive && g.ValidUntil != nil && g.ValidUntil.Before(now) {
			g.Status = model.GrantExpired
			n++
		}
	}
	return n, nil
}

// FindByScope: program_id / subcourse_id IS NOT DISTINCT FROM, то есть точное совпадение scope
func (m *memGrants) FindByScope(ctx context.Context, principalID int64, scope model.Scope) ([]*model.AccessGrant, error) {
	return m.filter(func(g *model.AccessGrant) bool {
		return g.PrincipalID == principalID && g.Scope == scope
	}), nil
}

func (m *memGrants) ListByPrincipal(ctx context.Context, principalID int64) ([]*model.AccessGrant, error) {
	return m.filter(func(g *model.AccessGrant) bool {
		return g.PrincipalID == principalID
	}), nil
}

// ListEffectiveByPrincipal: status <> 'revoked' AND valid_from <= $2
// AND (valid_until IS NULL OR valid_until >= $2), обе границы включительно
func (m *memGrants) ListEffectiveByPrincipal(ctx context.Context, principalID int64, now time.Time) ([]*model.AccessGrant, error) {
	return m.filter(func(g *model.AccessGrant) bool {
		return g.PrincipalID == principalID && g.Status != model.GrantRevoked && g.InWindow(now)
	}), nil
}

// Delete: ErrNotFound при 0 удалённых строк
func (m *memGrants) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grants[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.grants, id)
	return nil
}

func (m *memGrants) filter(keep func(*model.AccessGrant) bool) []*model.AccessGrant {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.AccessGrant{}
	for _, id := range m.order {
		g, ok := m.grants[id]
		if !ok || !keep(g) {
			continue
		}
		cp := *g
		result = append(result, &cp)
	}
	return result
}

// put кладёт доступ как есть, минуя сервис (данные "из базы")
func (m *memGrants) put(g *model.AccessGrant) *model.AccessGrant {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	cp := *g
	m.grants[g.ID] = &cp
	m.order = append(m.order, g.ID)
	return g
}

func (m *memGrants) status(id uuid.UUID) model.GrantStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grants[id].Status
}

// ============ Каталог ============

type memCatalog struct {
	mu         sync.Mutex
	nextID     int64
	programs   map[int64]*model.Program
	subcourses map[int64]*model.Subcourse
	lessons    map[int64]*model.Lesson
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		programs:   make(map[int64]*model.Program),
		subcourses: make(map[int64]*model.Subcourse),
		lessons:    make(map[int64]*model.Lesson),
	}
}

func (m *memCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memCatalog) CreateProgram(ctx context.Context, p *model.Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.programs {
		if existing.Slug == p.Slug {
			return model.ErrAlreadyExists
		}
	}
	p.ID = m.id()
	cp := *p
	m.programs[p.ID] = &cp
	return nil
}

func (m *memCatalog) GetProgramByID(ctx context.Context, id int64) (*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memCatalog) GetProgramBySlug(ctx context.Context, slug string) (*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.programs {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCatalog) ListPrograms(ctx context.Context, publishedOnly bool) ([]*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Program{}
	for _, p := range m.programs {
		if publishedOnly && !p.IsPublished() {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memCatalog) CreateSubcourse(ctx context.Context, s *model.Subcourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programs[s.ProgramID]; !ok {
		return model.ErrNotFound
	}
	s.ID = m.id()
	cp := *s
	m.subcourses[s.ID] = &cp
	return nil
}

func (m *memCatalog) GetSubcourseByID(ctx context.Context, id int64) (*model.Subcourse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subcourses[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memCatalog) ListSubcoursesByProgram(ctx context.Context, programID int64, publishedOnly bool) ([]*model.Subcourse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Subcourse{}
	for _, s := range m.subcourses {
		if s.ProgramID != programID || (publishedOnly && !s.IsPublished()) {
			continue
		}
		cp := *s
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memCatalog) ListSubcoursesByIDs(ctx context.Context, ids []int64) ([]*model.Subcourse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Subcourse{}
	for _, id := range ids {
		if s, ok := m.subcourses[id]; ok {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *memCatalog) CreateLesson(ctx context.Context, l *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subcourses[l.SubcourseID]; !ok {
		return model.ErrNotFound
	}
	l.ID = m.id()
	cp := *l
	m.lessons[l.ID] = &cp
	return nil
}

func (m *memCatalog) GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memCatalog) ListLessonsBySubcourse(ctx context.Context, subcourseID int64, publishedOnly bool) ([]*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Lesson{}
	for _, l := range m.lessons {
		if l.SubcourseID != subcourseID || (publishedOnly && !l.IsPublished()) {
			continue
		}
		cp := *l
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memCatalog) CountPublishedLessons(ctx context.Context, subcourseID int64) (int, error) {
	lessons, _ := m.ListLessonsBySubcourse(ctx, subcourseID, true)
	return len(lessons), nil
}

func (m *memCatalog) SetStatus(ctx context.Context, kind model.ContentKind, id int64, status model.ContentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case model.KindProgram:
		if p, ok := m.programs[id]; ok {
			p.Status = status
			return nil
		}
	case model.KindSubcourse:
		if s, ok := m.subcourses[id]; ok {
			s.Status = status
			return nil
		}
	case model.KindLesson:
		if l, ok := m.lessons[id]; ok {
			l.Status = status
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *memCatalog) addProgram(slug string) *model.Program {
	p := &model.Program{Slug: slug, Title: slug, Status: model.ContentPublished, SortOrder: 1}
	_ = m.CreateProgram(context.Background(), p)
	return p
}

func (m *memCatalog) addSubcourse(programID int64, slug string) *model.Subcourse {
	s := &model.Subcourse{ProgramID: programID, Slug: slug, Title: slug, Status: model.ContentPublished, SortOrder: 1}
	_ = m.CreateSubcourse(context.Background(), s)
	return s
}

func (m *memCatalog) addLesson(subcourseID int64, slug string, status model.ContentStatus) *model.Lesson {
	l := &model.Lesson{SubcourseID: subcourseID, Slug: slug, Title: slug, Status: status, SortOrder: 1}
	_ = m.CreateLesson(context.Background(), l)
	return l
}

// moveSubcourse переносит подкурс в другую программу
func (m *memCatalog) moveSubcourse(subcourseID, programID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subcourses[subcourseID].ProgramID = programID
}

// ============ Прогресс ============

type progressKey struct {
	principalID int64
	lessonID    int64
}

type memProgress struct {
	mu      sync.Mutex
	catalog *memCatalog
	records map[progressKey]*model.LessonProgress
}

func newMemProgress(catalog *memCatalog) *memProgress {
	return &memProgress{catalog: catalog, records: make(map[progressKey]*model.LessonProgress)}
}

// MarkComplete: ON CONFLICT ... completed_at = COALESCE(lesson_progress.completed_at, EXCLUDED.completed_at)
func (m *memProgress) MarkComplete(ctx context.Context, principalID, lessonID int64, at time.Time) (*model.LessonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{principalID, lessonID}
	p, ok := m.records[key]
	if !ok {
		p = &model.LessonProgress{PrincipalID: principalID, LessonID: lessonID, CreatedAt: at}
		m.records[key] = p
	}
	p.IsCompleted = true
	if p.CompletedAt == nil {
		completedAt := at
		p.CompletedAt = &completedAt
	}
	p.UpdatedAt = at
	cp := *p
	return &cp, nil
}

func (m *memProgress) CountCompletedPublished(ctx context.Context, principalID, subcourseID int64) (int, error) {
	ids, _ := m.ListCompletedLessonIDs(ctx, principalID, subcourseID)
	return len(ids), nil
}

// ListCompletedLessonIDs: JOIN lessons с фильтром status = 'published'
func (m *memProgress) ListCompletedLessonIDs(ctx context.Context, principalID, subcourseID int64) ([]int64, error) {
	lessons, _ := m.catalog.ListLessonsBySubcourse(ctx, subcourseID, true)
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []int64{}
	for _, l := range lessons {
		if p, ok := m.records[progressKey{principalID, l.ID}]; ok && p.IsCompleted {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

// ============ Пользователи ============

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[int64]*model.User)}
}

func (m *memUsers) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == user.TelegramID {
			return model.ErrAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) add(telegramID int64, role model.Role) *model.User {
	u := &model.User{TelegramID: telegramID, Role: role}
	_ = m.Create(context.Background(), u)
	return u
}

// ============ Часы ============

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt64(v int64) *int64 { return &v }
