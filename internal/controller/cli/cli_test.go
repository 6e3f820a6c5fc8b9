package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, rt *Runtime, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd(rt, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseTime(t *testing.T) {
	day, err := parseTime("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day)

	instant, err := parseTime("2024-03-01T10:30:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC), instant)

	_, err = parseTime("01.03.2024")
	assert.Error(t, err)
}

func TestParseUntil(t *testing.T) {
	until, err := parseUntil("never")
	require.NoError(t, err)
	assert.Nil(t, until)

	until, err = parseUntil("")
	require.NoError(t, err)
	assert.Nil(t, until)

	until, err = parseUntil("2024-12-31")
	require.NoError(t, err)
	require.NotNil(t, until)
	assert.Equal(t, 2024, until.Year())
}

func TestScopeFromFlags(t *testing.T) {
	scope, err := scopeFromFlags(3, 0)
	require.NoError(t, err)
	assert.Equal(t, model.ProgramScope{ProgramID: 3}, scope)

	scope, err = scopeFromFlags(0, 7)
	require.NoError(t, err)
	assert.Equal(t, model.SubcourseScope{SubcourseID: 7}, scope)

	_, err = scopeFromFlags(3, 7)
	assert.ErrorIs(t, err, model.ErrInvalidScope)

	_, err = scopeFromFlags(0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidScope)
}

func TestParseGrantIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseGrantIDs([]string{a.String() + ",", b.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = parseGrantIDs([]string{"not-a-uuid"})
	assert.Error(t, err)
}

func TestParseGrantStatus(t *testing.T) {
	status, err := parseGrantStatus("Expired")
	require.NoError(t, err)
	assert.Equal(t, model.GrantExpired, status)

	_, err = parseGrantStatus("paused")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestGrantStatus_InvalidStatusBeforeDatabase(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "status", uuid.New().String(), "paused")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = execute(t, &Runtime{}, "grant", "status", uuid.New().String(), "expired")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestGrantFind_RequiresScope(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "find", "--user", "1")
	assert.ErrorIs(t, err, model.ErrInvalidScope)

	_, err = execute(t, &Runtime{}, "grant", "find", "--user", "1", "--subcourse", "4")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestGrantDelete_InvalidID(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "delete", "42")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotInitialized)
}

func TestAccessPrograms_RequiresServices(t *testing.T) {
	_, err := execute(t, &Runtime{}, "access", "programs", "--user", "1")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind("Lesson")
	require.NoError(t, err)
	assert.Equal(t, model.KindLesson, kind)

	_, err = parseKind("module")
	assert.Error(t, err)
}

func TestFormatScope(t *testing.T) {
	assert.Equal(t, "program:3", formatScope(&model.AccessGrant{Scope: model.ProgramScope{ProgramID: 3}}))
	assert.Equal(t, "subcourse:7", formatScope(&model.AccessGrant{Scope: model.SubcourseScope{SubcourseID: 7}}))
	assert.Equal(t, "never", formatUntil(nil))
}

func TestRootCmd_Tree(t *testing.T) {
	root := NewRootCmd(&Runtime{}, nil)

	for _, path := range [][]string{
		{"program", "add"},
		{"subcourse", "add"},
		{"lesson", "add"},
		{"content", "publish"},
		{"grant", "create"},
		{"grant", "list"},
		{"grant", "activate"},
		{"grant", "revoke"},
		{"grant", "extend"},
		{"grant", "status"},
		{"grant", "show"},
		{"grant", "find"},
		{"grant", "delete"},
		{"access", "programs"},
		{"grant", "sweep"},
		{"access", "check"},
		{"user", "role"},
		{"migrate"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestGrantCreate_InvalidScopeBeforeDatabase(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "create", "--user", "1")
	assert.ErrorIs(t, err, model.ErrInvalidScope)
}

func TestGrantCreate_BothScopesRejected(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "create", "--user", "1", "--program", "1", "--subcourse", "2")
	assert.Error(t, err)
}

func TestGrantCreate_RequiresServices(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "create", "--user", "1", "--program", "1", "--until", "2024-12-31")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestGrantCreate_BadDate(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "create", "--user", "1", "--program", "1", "--until", "31.12.2024")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotInitialized)
}

func TestGrantRevoke_InvalidID(t *testing.T) {
	_, err := execute(t, &Runtime{}, "grant", "revoke", "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotInitialized)
}

func TestContentPublish_UnknownKind(t *testing.T) {
	_, err := execute(t, &Runtime{}, "content", "publish", "module", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown content kind")
}

func TestUserRole_InvalidRole(t *testing.T) {
	_, err := execute(t, &Runtime{}, "user", "role", "100", "owner")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestMigrate(t *testing.T) {
	called := false
	rt := &Runtime{Migrate: func(ctx context.Context) error {
		called = true
		return nil
	}}

	out, err := execute(t, rt, "migrate")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, out, "Migrations applied")

	failing := &Runtime{Migrate: func(ctx context.Context) error {
		return errors.New("boom")
	}}
	_, err = execute(t, failing, "migrate")
	assert.EqualError(t, err, "boom")
}

func TestBootstrapRunsOnce(t *testing.T) {
	calls := 0
	rt := &Runtime{}
	root := NewRootCmd(rt, func(ctx context.Context, rt *Runtime) error {
		calls++
		rt.Migrate = func(ctx context.Context) error { return nil }
		rt.OnClose(func() { calls += 10 })
		return nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"migrate"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, 1, calls)

	rt.Close()
	assert.Equal(t, 11, calls)
}
