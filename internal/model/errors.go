package model

import "errors"

var (
	// ErrInvalidScope is returned when a grant targets neither or both of program and subcourse.
	ErrInvalidScope = errors.New("grant scope must be exactly one of program or subcourse")
	// ErrInvalidWindow is returned when valid_until precedes valid_from.
	ErrInvalidWindow = errors.New("grant valid_until precedes valid_from")
	// ErrInvalidStatus is returned for an unknown grant or content status.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrPermissionDenied means no effective grant covers the target.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on a unique key clash (slug, telegram id).
	ErrAlreadyExists = errors.New("already exists")
)
