package model

import (
	"time"

	"github.com/google/uuid"
)

// GrantStatus is the persisted lifecycle state of an AccessGrant
type GrantStatus string

const (
	GrantActive  GrantStatus = "active"
	GrantExpired GrantStatus = "expired"
	GrantRevoked GrantStatus = "revoked"
)

// IsValid reports whether s is a known grant status
func (s GrantStatus) IsValid() bool {
	switch s {
	case GrantActive, GrantExpired, GrantRevoked:
		return true
	}
	return false
}

// Scope is the content unit a grant applies to: either ProgramScope or SubcourseScope.
type Scope interface {
	isScope()
}

// ProgramScope grants access to every subcourse currently contained in the program
type ProgramScope struct {
	ProgramID int64 `json:"program_id"`
}

// SubcourseScope grants access to a single subcourse
type SubcourseScope struct {
	SubcourseID int64 `json:"subcourse_id"`
}

func (ProgramScope) isScope()   {}
func (SubcourseScope) isScope() {}

// NewScope builds a Scope from two optional ids. Exactly one must be set.
func NewScope(programID, subcourseID *int64) (Scope, error) {
	switch {
	case programID != nil && subcourseID == nil:
		return ProgramScope{ProgramID: *programID}, nil
	case subcourseID != nil && programID == nil:
		return SubcourseScope{SubcourseID: *subcourseID}, nil
	default:
		return nil, ErrInvalidScope
	}
}

// ScopeColumns splits a scope into the nullable (program_id, subcourse_id) pair
func ScopeColumns(scope Scope) (programID, subcourseID *int64) {
	switch s := scope.(type) {
	case ProgramScope:
		id := s.ProgramID
		return &id, nil
	case SubcourseScope:
		id := s.SubcourseID
		return nil, &id
	}
	return nil, nil
}

// AccessGrant gives a principal time-bounded access to a program or a subcourse
type AccessGrant struct {
	ID          uuid.UUID   `json:"id"`
	PrincipalID int64       `json:"principal_id"`
	Scope       Scope       `json:"scope"`
	Status      GrantStatus `json:"status"`
	ValidFrom   time.Time   `json:"valid_from"`
	ValidUntil  *time.Time  `json:"valid_until"` // nil = бессрочно
	GrantedBy   *int64      `json:"granted_by"`  // только для аудита
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// InWindow checks the validity window, both bounds inclusive
func (g *AccessGrant) InWindow(now time.Time) bool {
	if now.Before(g.ValidFrom) {
		return false
	}
	if g.ValidUntil != nil && now.After(*g.ValidUntil) {
		return false
	}
	return true
}

// IsEffective checks if the grant currently permits access.
// Revoked always denies; a persisted expired status is recomputed from the window.
func (g *AccessGrant) IsEffective(now time.Time) bool {
	if g.Status == GrantRevoked {
		return false
	}
	return g.InWindow(now)
}

// IsPastDue checks if valid_until has already passed
func (g *AccessGrant) IsPastDue(now time.Time) bool {
	return g.ValidUntil != nil && now.After(*g.ValidUntil)
}

// Normalize flips an active grant whose valid_until has passed to expired.
// Any other status is kept as is.
func (g *AccessGrant) Normalize(now time.Time) {
	if g.Status == GrantActive && g.IsPastDue(now) {
		g.Status = GrantExpired
	}
}

// Covers checks if the grant's scope contains the subcourse.
// Containment is evaluated against the subcourse's current program.
func (g *AccessGrant) Covers(subcourse *Subcourse) bool {
	if subcourse == nil {
		return false
	}
	switch s := g.Scope.(type) {
	case SubcourseScope:
		return s.SubcourseID == subcourse.ID
	case ProgramScope:
		return s.ProgramID == subcourse.ProgramID
	}
	return false
}

// ProgramID returns the program id for program-scoped grants
func (g *AccessGrant) ProgramID() (int64, bool) {
	s, ok := g.Scope.(ProgramScope)
	return s.ProgramID, ok
}

// SubcourseID returns the subcourse id for subcourse-scoped grants
func (g *AccessGrant) SubcourseID() (int64, bool) {
	s, ok := g.Scope.(SubcourseScope)
	return s.SubcourseID, ok
}
