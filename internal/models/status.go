package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOperation is returned when a caller tries to set a field that an Epic derives
	// from its subtasks.
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDuration  = errors.New("invalid duration")
)

// Status represents the progress of a task
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ParseStatus accepts the closed set of status names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusNew:
		return StatusNew, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Kind tells the concrete type of an Item
type Kind string

const (
	KindTask    Kind = "TASK"
	KindEpic    Kind = "EPIC"
	KindSubtask Kind = "SUBTASK"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindTask:
		return KindTask, nil
	case KindEpic:
		return KindEpic, nil
	case KindSubtask:
		return KindSubtask, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}
