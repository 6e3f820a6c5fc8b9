package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateTree(t *testing.T) {
	env := newTestEnv(true)
	ctx := context.Background()

	program, err := env.catalogService.CreateProgram(ctx, CreateProgramInput{
		Slug:    "spike-prime",
		Title:   "SPIKE Prime",
		KitType: "spike",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContentDraft, program.Status)
	assert.Equal(t, 1, program.SortOrder)

	subcourse, err := env.catalogService.CreateSubcourse(ctx, CreateSubcourseInput{
		ProgramID: program.ID,
		Slug:      "basics",
		Title:     "Basics",
		SortOrder: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, program.ID, subcourse.ProgramID)
	assert.Equal(t, 3, subcourse.SortOrder)

	lesson, err := env.catalogService.CreateLesson(ctx, CreateLessonInput{
		SubcourseID: subcourse.ID,
		Slug:        "motors",
		Title:       "Motors",
		VideoURL:    "https://example.com/motors.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, subcourse.ID, lesson.SubcourseID)

	lessons, err := env.catalogService.ListPublishedLessons(ctx, subcourse.ID)
	require.NoError(t, err)
	assert.Empty(t, lessons)

	require.NoError(t, env.catalogService.SetStatus(ctx, model.KindLesson, lesson.ID, model.ContentPublished))

	lessons, err = env.catalogService.ListPublishedLessons(ctx, subcourse.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, lesson.ID, lessons[0].ID)

	found, err := env.catalogService.GetProgramBySlug(ctx, "spike-prime")
	require.NoError(t, err)
	assert.Equal(t, program.ID, found.ID)
}

func TestCatalogService_Validation(t *testing.T) {
	env := newTestEnv(true)
	ctx := context.Background()

	_, err := env.catalogService.CreateProgram(ctx, CreateProgramInput{Slug: "Not A Slug", Title: ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Fields["slug"])
	assert.Equal(t, "required", verr.Fields["title"])

	_, err = env.catalogService.CreateLesson(ctx, CreateLessonInput{
		SubcourseID: 1,
		Slug:        "ok",
		Title:       "Ok",
		VideoURL:    "not a url",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "url", verr.Fields["video_url"])
}

func TestCatalogService_MissingParents(t *testing.T) {
	env := newTestEnv(true)
	ctx := context.Background()

	_, err := env.catalogService.CreateSubcourse(ctx, CreateSubcourseInput{ProgramID: 404, Slug: "x", Title: "X"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = env.catalogService.CreateLesson(ctx, CreateLessonInput{SubcourseID: 404, Slug: "x", Title: "X"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = env.catalogService.GetSubcourse(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = env.catalogService.GetLesson(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalogService_SetStatus(t *testing.T) {
	env := newTestEnv(true)
	ctx := context.Background()
	program := env.catalog.addProgram("spike")

	err := env.catalogService.SetStatus(ctx, model.KindProgram, program.ID, model.ContentStatus("hidden"))
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	require.NoError(t, env.catalogService.SetStatus(ctx, model.KindProgram, program.ID, model.ContentArchived))

	published, err := env.catalogService.ListPrograms(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, published)

	all, err := env.catalogService.ListPrograms(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = env.catalogService.SetStatus(ctx, model.KindSubcourse, 404, model.ContentPublished)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
