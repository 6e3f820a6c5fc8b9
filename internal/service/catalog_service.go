package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/repository/base"
	"go.uber.org/zap"
)

// CreateProgramInput - данные новой программы
type CreateProgramInput struct {
	Slug        string `json:"slug" validate:"required,max=255,slug"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	KitType     string `json:"kit_type" validate:"max=50"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

// CreateSubcourseInput - данные нового подкурса
type CreateSubcourseInput struct {
	ProgramID      int64  `json:"program_id" validate:"required,gt=0"`
	Slug           string `json:"slug" validate:"required,max=255,slug"`
	Title          string `json:"title" validate:"required,max=255"`
	Subtitle       string `json:"subtitle" validate:"max=255"`
	Description    string `json:"description"`
	CodingLanguage string `json:"coding_language" validate:"max=50"`
	SortOrder      int    `json:"sort_order" validate:"gte=0"`
	Price          int64  `json:"price" validate:"gte=0"`
}

// CreateLessonInput - данные нового урока
type CreateLessonInput struct {
	SubcourseID      int64  `json:"subcourse_id" validate:"required,gt=0"`
	Slug             string `json:"slug" validate:"required,max=255,slug"`
	Title            string `json:"title" validate:"required,max=255"`
	Objective        string `json:"objective"`
	ContentText      string `json:"content_text"`
	VideoURL         string `json:"video_url" validate:"omitempty,url,max=500"`
	SortOrder        int    `json:"sort_order" validate:"gte=0"`
	EstimatedMinutes *int   `json:"estimated_minutes" validate:"omitempty,gte=1"`
}

// CatalogService - чтение и наполнение дерева Program -> Subcourse -> Lesson
type CatalogService struct {
	catalog CatalogStore
	logger  *zap.Logger
}

func NewCatalogService(catalog CatalogStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// ============ Наполнение ============

// CreateProgram создаёт программу в статусе draft
func (s *CatalogService) CreateProgram(ctx context.Context, in CreateProgramInput) (*model.Program, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	program := &model.Program{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		KitType:     in.KitType,
		Status:      model.ContentDraft,
		SortOrder:   sortOrderOrDefault(in.SortOrder),
	}

	if err := s.catalog.CreateProgram(ctx, program); err != nil {
		return nil, wrapCreateErr("program", err)
	}

	s.logger.Info("Program created",
		zap.Int64("program_id", program.ID),
		zap.String("slug", program.Slug),
	)

	return program, nil
}

// CreateSubcourse создаёт подкурс в статусе draft
func (s *CatalogService) CreateSubcourse(ctx context.Context, in CreateSubcourseInput) (*model.Subcourse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	program, err := s.catalog.GetProgramByID(ctx, in.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("program %d: %w", in.ProgramID, model.ErrNotFound)
	}

	subcourse := &model.Subcourse{
		ProgramID:      in.ProgramID,
		Slug:           in.Slug,
		Title:          in.Title,
		Subtitle:       in.Subtitle,
		Description:    in.Description,
		CodingLanguage: in.CodingLanguage,
		Status:         model.ContentDraft,
		SortOrder:      sortOrderOrDefault(in.SortOrder),
		Price:          in.Price,
	}

	if err := s.catalog.CreateSubcourse(ctx, subcourse); err != nil {
		return nil, wrapCreateErr("subcourse", err)
	}

	s.logger.Info("Subcourse created",
		zap.Int64("subcourse_id", subcourse.ID),
		zap.Int64("program_id", subcourse.ProgramID),
		zap.String("slug", subcourse.Slug),
	)

	return subcourse, nil
}

// CreateLesson создаёт урок в статусе draft
func (s *CatalogService) CreateLesson(ctx context.Context, in CreateLessonInput) (*model.Lesson, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	subcourse, err := s.catalog.GetSubcourseByID(ctx, in.SubcourseID)
	if err != nil {
		return nil, fmt.Errorf("get subcourse: %w", err)
	}
	if subcourse == nil {
		return nil, fmt.Errorf("subcourse %d: %w", in.SubcourseID, model.ErrNotFound)
	}

	lesson := &model.Lesson{
		SubcourseID:      in.SubcourseID,
		Slug:             in.Slug,
		Title:            in.Title,
		Objective:        in.Objective,
		ContentText:      in.ContentText,
		VideoURL:         in.VideoURL,
		Status:           model.ContentDraft,
		SortOrder:        sortOrderOrDefault(in.SortOrder),
		EstimatedMinutes: in.EstimatedMinutes,
	}

	if err := s.catalog.CreateLesson(ctx, lesson); err != nil {
		return nil, wrapCreateErr("lesson", err)
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("subcourse_id", lesson.SubcourseID),
		zap.String("slug", lesson.Slug),
	)

	return lesson, nil
}

// SetStatus публикует, архивирует или возвращает в черновик
func (s *CatalogService) SetStatus(ctx context.Context, kind model.ContentKind, id int64, status model.ContentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("content status %q: %w", status, model.ErrInvalidStatus)
	}

	if err := s.catalog.SetStatus(ctx, kind, id, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	s.logger.Info("Content status changed",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)

	return nil
}

// ============ Чтение ============

// GetProgram получает программу по ID
func (s *CatalogService) GetProgram(ctx context.Context, id int64) (*model.Program, error) {
	program, err := s.catalog.GetProgramByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("program %d: %w", id, model.ErrNotFound)
	}
	return program, nil
}

// GetProgramBySlug получает программу по slug
func (s *CatalogService) GetProgramBySlug(ctx context.Context, slug string) (*model.Program, error) {
	program, err := s.catalog.GetProgramBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("program %q: %w", slug, model.ErrNotFound)
	}
	return program, nil
}

// GetSubcourse получает подкурс по ID
func (s *CatalogService) GetSubcourse(ctx context.Context, id int64) (*model.Subcourse, error) {
	subcourse, err := s.catalog.GetSubcourseByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subcourse: %w", err)
	}
	if subcourse == nil {
		return nil, fmt.Errorf("subcourse %d: %w", id, model.ErrNotFound)
	}
	return subcourse, nil
}

// GetLesson получает урок по ID
func (s *CatalogService) GetLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := s.catalog.GetLessonByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %d: %w", id, model.ErrNotFound)
	}
	return lesson, nil
}

// ListPrograms получает программы
func (s *CatalogService) ListPrograms(ctx context.Context, publishedOnly bool) ([]*model.Program, error) {
	programs, err := s.catalog.ListPrograms(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// ListSubcourses получает подкурсы программы
func (s *CatalogService) ListSubcourses(ctx context.Context, programID int64, publishedOnly bool) ([]*model.Subcourse, error) {
	subcourses, err := s.catalog.ListSubcoursesByProgram(ctx, programID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list subcourses: %w", err)
	}
	return subcourses, nil
}

// ListPublishedSubcourses получает опубликованные подкурсы программы
func (s *CatalogService) ListPublishedSubcourses(ctx context.Context, programID int64) ([]*model.Subcourse, error) {
	return s.ListSubcourses(ctx, programID, true)
}

// ListPublishedLessons получает опубликованные уроки подкурса
func (s *CatalogService) ListPublishedLessons(ctx context.Context, subcourseID int64) ([]*model.Lesson, error) {
	lessons, err := s.catalog.ListLessonsBySubcourse(ctx, subcourseID, true)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func sortOrderOrDefault(order int) int {
	if order < 1 {
		return 1
	}
	return order
}

func wrapCreateErr(kind string, err error) error {
	switch {
	case base.IsUniqueViolation(err):
		return fmt.Errorf("create %s: %w", kind, model.ErrAlreadyExists)
	case base.IsForeignKeyViolation(err):
		return fmt.Errorf("create %s: %w", kind, model.ErrNotFound)
	default:
		return fmt.Errorf("create %s: %w", kind, err)
	}
}
