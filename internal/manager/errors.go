package manager

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrOverlapConflict      = errors.New("schedule overlaps an existing item")
	ErrReferentialIntegrity = errors.New("referenced epic does not exist")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrInvalidID            = errors.New("invalid id")
)
