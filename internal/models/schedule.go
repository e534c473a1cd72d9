package models

import (
	"fmt"
	"math"
	"time"
)

// TimeLayout is the wire format for start and end instants (day.month.year hour:minute).
const TimeLayout = "02.01.2006 15:04"

// MaxDurationMinutes is the longest duration, in minutes, a time.Duration can hold.
const MaxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// DurationFromMinutes converts a wire or stored minute count, rejecting negative values and
// values that do not fit a time.Duration.
func DurationFromMinutes(minutes int64) (time.Duration, error) {
	if minutes < 0 {
		return 0, fmt.Errorf("%w: %d minutes is negative", ErrInvalidDuration, minutes)
	}
	if minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("%w: %d minutes exceeds %d", ErrInvalidDuration, minutes, MaxDurationMinutes)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// Schedule is an optional start instant plus an optional duration. A nil field means absent.
type Schedule struct {
	Start    *time.Time
	Duration *time.Duration
}

// NewSchedule builds a fully specified schedule.
func NewSchedule(start time.Time, d time.Duration) Schedule {
	return Schedule{Start: &start, Duration: &d}
}

// Scheduled reports whether both start and duration are present.
func (s Schedule) Scheduled() bool {
	return s.Start != nil && s.Duration != nil
}

// End returns start + duration when both are present.
func (s Schedule) End() (time.Time, bool) {
	if !s.Scheduled() {
		return time.Time{}, false
	}
	return s.Start.Add(*s.Duration), true
}

// Validate rejects negative durations.
func (s Schedule) Validate() error {
	if s.Duration != nil && *s.Duration < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidDuration, *s.Duration)
	}
	return nil
}

// Clone copies the pointed-to values so the result shares nothing with s.
func (s Schedule) Clone() Schedule {
	var out Schedule
	if s.Start != nil {
		start := *s.Start
		out.Start = &start
	}
	if s.Duration != nil {
		d := *s.Duration
		out.Duration = &d
	}
	return out
}

// Overlaps applies the inclusive closed-interval test: s1 <= e2 && e1 >= s2.
// Unscheduled operands never overlap.
func (s Schedule) Overlaps(other Schedule) bool {
	e1, ok1 := s.End()
	e2, ok2 := other.End()
	if !ok1 || !ok2 {
		return false
	}
	return !s.Start.After(e2) && !e1.Before(*other.Start)
}
