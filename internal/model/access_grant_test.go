package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewScope(t *testing.T) {
	t.Run("program only", func(t *testing.T) {
		scope, err := NewScope(int64Ptr(7), nil)
		require.NoError(t, err)
		assert.Equal(t, ProgramScope{ProgramID: 7}, scope)
	})

	t.Run("subcourse only", func(t *testing.T) {
		scope, err := NewScope(nil, int64Ptr(55))
		require.NoError(t, err)
		assert.Equal(t, SubcourseScope{SubcourseID: 55}, scope)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := NewScope(nil, nil)
		assert.ErrorIs(t, err, ErrInvalidScope)
	})

	t.Run("both", func(t *testing.T) {
		_, err := NewScope(int64Ptr(7), int64Ptr(55))
		assert.ErrorIs(t, err, ErrInvalidScope)
	})
}

func TestScopeColumns(t *testing.T) {
	p, s := ScopeColumns(ProgramScope{ProgramID: 3})
	require.NotNil(t, p)
	assert.Equal(t, int64(3), *p)
	assert.Nil(t, s)

	p, s = ScopeColumns(SubcourseScope{SubcourseID: 9})
	assert.Nil(t, p)
	require.NotNil(t, s)
	assert.Equal(t, int64(9), *s)

	p, s = ScopeColumns(nil)
	assert.Nil(t, p)
	assert.Nil(t, s)
}

func TestAccessGrant_IsEffective_WindowBoundaries(t *testing.T) {
	from := date(2024, 1, 1)
	until := date(2024, 12, 31)
	g := &AccessGrant{Status: GrantActive, ValidFrom: from, ValidUntil: &until}

	assert.False(t, g.IsEffective(from.Add(-time.Nanosecond)))
	assert.True(t, g.IsEffective(from))
	assert.True(t, g.IsEffective(date(2024, 6, 1)))
	assert.True(t, g.IsEffective(until))
	assert.False(t, g.IsEffective(until.Add(time.Nanosecond)))
	assert.False(t, g.IsEffective(date(2025, 1, 1)))
}

func TestAccessGrant_IsEffective_Status(t *testing.T) {
	now := date(2024, 6, 1)
	g := &AccessGrant{ValidFrom: date(2024, 1, 1)}

	g.Status = GrantRevoked
	assert.False(t, g.IsEffective(now))

	g.Status = GrantActive
	assert.True(t, g.IsEffective(now))

	// expired в базе не окончательно: окно открыто, значит доступ есть
	g.Status = GrantExpired
	assert.True(t, g.IsEffective(now))
}

func TestAccessGrant_Unbounded(t *testing.T) {
	g := &AccessGrant{Status: GrantActive, ValidFrom: date(2024, 1, 1)}
	assert.True(t, g.IsEffective(date(2100, 1, 1)))
	assert.False(t, g.IsPastDue(date(2100, 1, 1)))
}

func TestAccessGrant_Normalize(t *testing.T) {
	now := date(2024, 6, 1)
	past := date(2024, 5, 1)
	future := date(2024, 7, 1)

	tests := []struct {
		name   string
		status GrantStatus
		until  *time.Time
		want   GrantStatus
	}{
		{"active past due becomes expired", GrantActive, &past, GrantExpired},
		{"active open stays active", GrantActive, &future, GrantActive},
		{"active unbounded stays active", GrantActive, nil, GrantActive},
		{"expired inside window stays expired", GrantExpired, &future, GrantExpired},
		{"expired past stays expired", GrantExpired, &past, GrantExpired},
		{"revoked never changes", GrantRevoked, &past, GrantRevoked},
		{"revoked open stays revoked", GrantRevoked, &future, GrantRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &AccessGrant{Status: tt.status, ValidFrom: date(2024, 1, 1), ValidUntil: tt.until}
			g.Normalize(now)
			assert.Equal(t, tt.want, g.Status)
		})
	}
}

func TestAccessGrant_Covers(t *testing.T) {
	sub := &Subcourse{ID: 99, ProgramID: 7}

	assert.True(t, (&AccessGrant{Scope: ProgramScope{ProgramID: 7}}).Covers(sub))
	assert.False(t, (&AccessGrant{Scope: ProgramScope{ProgramID: 8}}).Covers(sub))
	assert.True(t, (&AccessGrant{Scope: SubcourseScope{SubcourseID: 99}}).Covers(sub))
	assert.False(t, (&AccessGrant{Scope: SubcourseScope{SubcourseID: 7}}).Covers(sub))
	assert.False(t, (&AccessGrant{Scope: ProgramScope{ProgramID: 7}}).Covers(nil))
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0.0, CompletionPercentage(0, 0))
	assert.Equal(t, 0.0, CompletionPercentage(3, 0))
	assert.Equal(t, 0.0, CompletionPercentage(0, 4))
	assert.Equal(t, 50.0, CompletionPercentage(2, 4))
	assert.Equal(t, 100.0, CompletionPercentage(4, 4))
	assert.Equal(t, 100.0, CompletionPercentage(5, 4))
}

func TestRoleAndStatusValidity(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("staff").IsValid())
	assert.True(t, GrantRevoked.IsValid())
	assert.False(t, GrantStatus("ACTIVE").IsValid())
	assert.True(t, ContentPublished.IsValid())
	assert.False(t, ContentStatus("hidden").IsValid())

	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsTeacher())
}
