package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressRepository хранит отметки о прохождении уроков
type ProgressRepository struct {
	*base.Repository
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{Repository: base.NewRepository(pool)}
}

// MarkComplete отмечает урок пройденным.
// Повторная отметка не меняет completed_at: сохраняется время первого прохождения.
func (r *ProgressRepository) MarkComplete(ctx context.Context, principalID, lessonID int64, at time.Time) (*model.LessonProgress, error) {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, is_completed, completed_at)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET is_completed = TRUE,
		    completed_at = COALESCE(lesson_progress.completed_at, EXCLUDED.completed_at),
		    updated_at   = NOW()
		RETURNING user_id, lesson_id, is_completed, completed_at, created_at, updated_at
	`

	var p model.LessonProgress
	err := r.QueryRow(ctx, query, principalID, lessonID, at).Scan(
		&p.PrincipalID,
		&p.LessonID,
		&p.IsCompleted,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("mark lesson complete: %w", model.ErrNotFound)
		}
		return nil, fmt.Errorf("mark lesson complete: %w", err)
	}

	return &p, nil
}

// CountCompletedPublished подсчитывает пройденные опубликованные уроки подкурса
func (r *ProgressRepository) CountCompletedPublished(ctx context.Context, principalID, subcourseID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1
		  AND lp.is_completed = TRUE
		  AND l.subcourse_id = $2
		  AND l.status = 'published'
	`

	var count int
	err := r.QueryRow(ctx, query, principalID, subcourseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}

	return count, nil
}

// ListCompletedLessonIDs получает ID пройденных уроков подкурса
func (r *ProgressRepository) ListCompletedLessonIDs(ctx context.Context, principalID, subcourseID int64) ([]int64, error) {
	query := `
		SELECT lp.lesson_id
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND lp.is_completed = TRUE AND l.subcourse_id = $2
		ORDER BY lp.completed_at
	`

	rows, err := r.Query(ctx, query, principalID, subcourseID)
	if err != nil {
		return nil, fmt.Errorf("list completed lessons: %w", err)
	}
	defer rows.Close()

	var lessonIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lesson id: %w", err)
		}
		lessonIDs = append(lessonIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson ids: %w", err)
	}

	return lessonIDs, nil
}
