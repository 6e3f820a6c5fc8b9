package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	programColumns   = `id, slug, title, description, kit_type, status, sort_order, created_at, updated_at`
	subcourseColumns = `id, program_id, slug, title, subtitle, description, coding_language, status, sort_order, price, created_at, updated_at`
	lessonColumns    = `id, subcourse_id, slug, title, objective, content_text, video_url, status, sort_order, estimated_minutes, created_at, updated_at`
)

// CatalogRepository хранит дерево Program -> Subcourse -> Lesson
type CatalogRepository struct {
	*base.Repository
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{Repository: base.NewRepository(pool)}
}

// ============ Программы ============

// CreateProgram создаёт программу
func (r *CatalogRepository) CreateProgram(ctx context.Context, p *model.Program) error {
	query := `
		INSERT INTO programs (slug, title, description, kit_type, status, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		p.Slug, p.Title, p.Description, p.KitType, p.Status, p.SortOrder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}

	return nil
}

// GetProgramByID получает программу по ID
func (r *CatalogRepository) GetProgramByID(ctx context.Context, id int64) (*model.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`

	p, err := scanProgram(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get program by id: %w", err)
	}

	return p, nil
}

// GetProgramBySlug получает программу по slug
func (r *CatalogRepository) GetProgramBySlug(ctx context.Context, slug string) (*model.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE slug = $1`

	p, err := scanProgram(r.QueryRow(ctx, query, slug))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get program by slug: %w", err)
	}

	return p, nil
}

// ListPrograms получает программы в порядке отображения
func (r *CatalogRepository) ListPrograms(ctx context.Context, publishedOnly bool) ([]*model.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs
		WHERE NOT $1 OR status = 'published'
		ORDER BY sort_order, title
	`

	rows, err := r.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []*model.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	return programs, nil
}

// ============ Подкурсы ============

// CreateSubcourse создаёт подкурс внутри программы
func (r *CatalogRepository) CreateSubcourse(ctx context.Context, s *model.Subcourse) error {
	query := `
		INSERT INTO subcourses (program_id, slug, title, subtitle, description, coding_language, status, sort_order, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		s.ProgramID, s.Slug, s.Title, s.Subtitle, s.Description,
		s.CodingLanguage, s.Status, s.SortOrder, s.Price,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subcourse: %w", err)
	}

	return nil
}

// GetSubcourseByID получает подкурс по ID
func (r *CatalogRepository) GetSubcourseByID(ctx context.Context, id int64) (*model.Subcourse, error) {
	query := `SELECT ` + subcourseColumns + ` FROM subcourses WHERE id = $1`

	s, err := scanSubcourse(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subcourse by id: %w", err)
	}

	return s, nil
}

// GetSubcourseBySlug получает подкурс по slug внутри программы
func (r *CatalogRepository) GetSubcourseBySlug(ctx context.Context, programID int64, slug string) (*model.Subcourse, error) {
	query := `SELECT ` + subcourseColumns + ` FROM subcourses WHERE program_id = $1 AND slug = $2`

	s, err := scanSubcourse(r.QueryRow(ctx, query, programID, slug))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subcourse by slug: %w", err)
	}

	return s, nil
}

// ListSubcoursesByProgram получает подкурсы программы (дети)
func (r *CatalogRepository) ListSubcoursesByProgram(ctx context.Context, programID int64, publishedOnly bool) ([]*model.Subcourse, error) {
	query := `
		SELECT ` + subcourseColumns + `
		FROM subcourses
		WHERE program_id = $1 AND (NOT $2 OR status = 'published')
		ORDER BY sort_order, title
	`

	return r.listSubcourses(ctx, query, programID, publishedOnly)
}

// ListSubcoursesByIDs получает подкурсы по списку ID
func (r *CatalogRepository) ListSubcoursesByIDs(ctx context.Context, ids []int64) ([]*model.Subcourse, error) {
	if len(ids) == 0 {
		return []*model.Subcourse{}, nil
	}

	query := `
		SELECT ` + subcourseColumns + `
		FROM subcourses
		WHERE id = ANY($1)
		ORDER BY program_id, sort_order, title
	`

	return r.listSubcourses(ctx, query, ids)
}

func (r *CatalogRepository) listSubcourses(ctx context.Context, query string, args ...interface{}) ([]*model.Subcourse, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcourses: %w", err)
	}
	defer rows.Close()

	var subcourses []*model.Subcourse
	for rows.Next() {
		s, err := scanSubcourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcourse: %w", err)
		}
		subcourses = append(subcourses, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subcourses: %w", err)
	}

	return subcourses, nil
}

// ============ Уроки ============

// CreateLesson создаёт урок внутри подкурса
func (r *CatalogRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (subcourse_id, slug, title, objective, content_text, video_url, status, sort_order, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		l.SubcourseID, l.Slug, l.Title, l.Objective, l.ContentText,
		l.VideoURL, l.Status, l.SortOrder, l.EstimatedMinutes,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetLessonByID получает урок по ID
func (r *CatalogRepository) GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	l, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return l, nil
}

// ListLessonsBySubcourse получает уроки подкурса
func (r *CatalogRepository) ListLessonsBySubcourse(ctx context.Context, subcourseID int64, publishedOnly bool) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE subcourse_id = $1 AND (NOT $2 OR status = 'published')
		ORDER BY sort_order, title
	`

	rows, err := r.Query(ctx, query, subcourseID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// CountPublishedLessons подсчитывает опубликованные уроки подкурса
func (r *CatalogRepository) CountPublishedLessons(ctx context.Context, subcourseID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons
		WHERE subcourse_id = $1 AND status = 'published'
	`

	var count int
	err := r.QueryRow(ctx, query, subcourseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published lessons: %w", err)
	}

	return count, nil
}

// ============ Статус публикации ============

// SetStatus меняет статус публикации программы, подкурса или урока
func (r *CatalogRepository) SetStatus(ctx context.Context, kind model.ContentKind, id int64, status model.ContentStatus) error {
	var table string
	switch kind {
	case model.KindProgram:
		table = "programs"
	case model.KindSubcourse:
		table = "subcourses"
	case model.KindLesson:
		table = "lessons"
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}

	query := `UPDATE ` + table + ` SET status = $1, updated_at = NOW() WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set %s status: %w", kind, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, model.ErrNotFound)
	}

	return nil
}

func scanProgram(row pgx.Row) (*model.Program, error) {
	var p model.Program
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Description,
		&p.KitType,
		&p.Status,
		&p.SortOrder,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSubcourse(row pgx.Row) (*model.Subcourse, error) {
	var s model.Subcourse
	err := row.Scan(
		&s.ID,
		&s.ProgramID,
		&s.Slug,
		&s.Title,
		&s.Subtitle,
		&s.Description,
		&s.CodingLanguage,
		&s.Status,
		&s.SortOrder,
		&s.Price,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(
		&l.ID,
		&l.SubcourseID,
		&l.Slug,
		&l.Title,
		&l.Objective,
		&l.ContentText,
		&l.VideoURL,
		&l.Status,
		&l.SortOrder,
		&l.EstimatedMinutes,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
