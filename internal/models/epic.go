package models

import (
	"fmt"
	"sort"
	"time"
)

// Epic is a container task. Its status, start time, duration and end time are derived from
// its subtasks and recomputed every time the subtask set changes.
type Epic struct {
	ID          int
	Name        string
	Description string

	status   Status
	schedule Schedule
	end      *time.Time
	subtasks map[int]*Subtask
}

func NewEpic(name, description string) *Epic {
	return &Epic{
		Name:        name,
		Description: description,
		status:      StatusNew,
		subtasks:    make(map[int]*Subtask),
	}
}

func (e *Epic) Identity() int    { return e.ID }
func (e *Epic) Kind() Kind       { return KindEpic }
func (e *Epic) State() Status    { return e.status }
func (e *Epic) Timing() Schedule { return e.schedule }

func (e *Epic) EndTime() (time.Time, bool) {
	if e.end == nil {
		return time.Time{}, false
	}
	return *e.end, true
}

// SetStatus always fails: an epic's status is derived.
func (e *Epic) SetStatus(Status) error {
	return fmt.Errorf("%w: epic %d status is derived from its subtasks", ErrInvalidOperation, e.ID)
}

// SetSchedule always fails: an epic's schedule is derived.
func (e *Epic) SetSchedule(Schedule) error {
	return fmt.Errorf("%w: epic %d schedule is derived from its subtasks", ErrInvalidOperation, e.ID)
}

// PutSubtask adds or replaces a subtask and recomputes the derived fields.
func (e *Epic) PutSubtask(s *Subtask) {
	if e.subtasks == nil {
		e.subtasks = make(map[int]*Subtask)
	}
	e.subtasks[s.ID] = s
	e.recompute()
}

// RemoveSubtask drops a subtask if present and recomputes the derived fields.
func (e *Epic) RemoveSubtask(id int) {
	delete(e.subtasks, id)
	e.recompute()
}

// ClearSubtasks drops every subtask; the epic goes back to NEW with no schedule.
func (e *Epic) ClearSubtasks() {
	e.subtasks = make(map[int]*Subtask)
	e.recompute()
}

func (e *Epic) Subtask(id int) (*Subtask, bool) {
	s, ok := e.subtasks[id]
	return s, ok
}

func (e *Epic) HasSubtask(id int) bool {
	_, ok := e.subtasks[id]
	return ok
}

func (e *Epic) Len() int { return len(e.subtasks) }

// Subtasks returns the live subtasks ordered by id.
func (e *Epic) Subtasks() []*Subtask {
	out := make([]*Subtask, 0, len(e.subtasks))
	for _, s := range e.subtasks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SubtaskIDs returns the ids of the subtasks in ascending order.
func (e *Epic) SubtaskIDs() []int {
	ids := make([]int, 0, len(e.subtasks))
	for _, s := range e.Subtasks() {
		ids = append(ids, s.ID)
	}
	return ids
}

// recompute refreshes status, start, duration and end from the current subtasks.
// The schedule stays undefined until at least one subtask has both a start and a duration.
func (e *Epic) recompute() {
	e.status = deriveStatus(e.subtasks)
	e.schedule = Schedule{}
	e.end = nil

	var (
		start     *time.Time
		end       *time.Time
		total     time.Duration
		scheduled bool
	)
	for _, s := range e.subtasks {
		sch := s.Schedule
		if sch.Duration != nil {
			total += *sch.Duration
		}
		if sch.Start != nil && (start == nil || sch.Start.Before(*start)) {
			v := *sch.Start
			start = &v
		}
		if to, ok := sch.End(); ok {
			scheduled = true
			if end == nil || to.After(*end) {
				end = &to
			}
		}
	}
	if !scheduled {
		return
	}
	e.schedule = Schedule{Start: start, Duration: &total}
	e.end = end
}

func deriveStatus(subtasks map[int]*Subtask) Status {
	var fresh, done int
	for _, s := range subtasks {
		switch s.Status {
		case StatusNew:
			fresh++
		case StatusDone:
			done++
		}
	}
	switch {
	case fresh == len(subtasks):
		return StatusNew
	case done == len(subtasks):
		return StatusDone
	default:
		return StatusInProgress
	}
}

// Clone deep-copies the epic together with its subtasks.
func (e *Epic) Clone() *Epic {
	out := &Epic{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		status:      e.status,
		schedule:    e.schedule.Clone(),
		subtasks:    make(map[int]*Subtask, len(e.subtasks)),
	}
	if e.end != nil {
		end := *e.end
		out.end = &end
	}
	for id, s := range e.subtasks {
		out.subtasks[id] = s.Clone()
	}
	return out
}

func (e *Epic) Snapshot() Item { return e.Clone() }
