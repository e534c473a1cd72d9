package models

import "time"

// Item is the common read surface of tasks, epics and subtasks.
//
// Two items are the same item when their identities match; other fields are not compared.
type Item interface {
	Identity() int
	Kind() Kind
	State() Status
	Timing() Schedule
	EndTime() (time.Time, bool)
	// Snapshot returns a deep copy that preserves the concrete type.
	Snapshot() Item
}

// SameItem reports identity equality.
func SameItem(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Identity() == b.Identity()
}

// Task represents a plain unit of work
type Task struct {
	ID          int
	Name        string
	Description string
	Status      Status
	Schedule    Schedule
}

// NewTask returns a task with status NEW and no schedule.
func NewTask(name, description string) *Task {
	return &Task{
		Name:        name,
		Description: description,
		Status:      StatusNew,
	}
}

func (t *Task) Identity() int    { return t.ID }
func (t *Task) Kind() Kind       { return KindTask }
func (t *Task) State() Status    { return t.Status }
func (t *Task) Timing() Schedule { return t.Schedule }

func (t *Task) EndTime() (time.Time, bool) { return t.Schedule.End() }

// SetStatus validates and applies a status.
func (t *Task) SetStatus(s Status) error {
	parsed, err := ParseStatus(string(s))
	if err != nil {
		return err
	}
	t.Status = parsed
	return nil
}

// SetSchedule validates and applies a schedule; the task keeps its own copy.
func (t *Task) SetSchedule(s Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.Schedule = s.Clone()
	return nil
}

// Clone returns an independent copy.
func (t *Task) Clone() *Task {
	out := *t
	out.Schedule = t.Schedule.Clone()
	return &out
}

func (t *Task) Snapshot() Item { return t.Clone() }
