package handlers

import (
	"testing"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandName(t *testing.T) {
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"/start", "start", true},
		{"/lessons 12", "lessons", true},
		{"/Grant@lms_bot 1 program 2", "grant", true},
		{"  /done   5 ", "done", true},
		{"hello", "", false},
		{"/", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := commandName(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestCommandMatcher_DistinguishesSimilarNames(t *testing.T) {
	update := &models.Update{Message: &models.Message{Text: "/lessons 3"}}

	assert.True(t, CommandMatcher("lessons")(update))
	assert.False(t, CommandMatcher("lesson")(update))
	assert.False(t, CommandMatcher("lessons")(&models.Update{}))
}

func TestParseID(t *testing.T) {
	id, err := parseID(commandArgs("/lesson 42"), UsageLesson)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, text := range []string{"/lesson", "/lesson abc", "/lesson 0", "/lesson -1", "/lesson 1 2"} {
		_, err := parseID(commandArgs(text), UsageLesson)
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr, text)
		assert.Equal(t, UsageLesson, usageErr.Usage)
	}
}

func TestParseGrantArgs(t *testing.T) {
	args, err := parseGrantArgs([]string{"5", "program", "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), args.PrincipalID)
	assert.Equal(t, model.ProgramScope{ProgramID: 7}, args.Scope)
	assert.Zero(t, args.Days)

	args, err = parseGrantArgs([]string{"5", "Subcourse", "99", "30"})
	require.NoError(t, err)
	assert.Equal(t, model.SubcourseScope{SubcourseID: 99}, args.Scope)
	assert.Equal(t, 30, args.Days)

	args, err = parseGrantArgs([]string{"5", "подкурс", "99"})
	require.NoError(t, err)
	assert.Equal(t, model.SubcourseScope{SubcourseID: 99}, args.Scope)

	invalid := [][]string{
		nil,
		{"5", "program"},
		{"5", "lesson", "7"},
		{"x", "program", "7"},
		{"5", "program", "0"},
		{"5", "program", "7", "0"},
		{"5", "program", "7", "99999"},
		{"5", "program", "7", "30", "extra"},
	}
	for _, in := range invalid {
		_, err := parseGrantArgs(in)
		var usageErr *UsageError
		assert.ErrorAs(t, err, &usageErr, "%v", in)
	}
}

func TestParseUUIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseUUIDs([]string{a.String() + ",", b.String()}, UsageRevoke)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = parseUUIDs(nil, UsageRevoke)
	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)

	_, err = parseUUIDs([]string{a.String(), "nope"}, UsageRevoke)
	assert.ErrorAs(t, err, &usageErr)
}

func TestParseCallbackID(t *testing.T) {
	id, err := parseCallbackID("done:15", "done:")
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = parseCallbackID("done:x", "done:")
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = parseCallbackID("lesson:15", "done:")
	assert.ErrorIs(t, err, ErrInvalidData)
}
