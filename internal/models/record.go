package models

import (
	"fmt"
	"time"
)

// ItemRecord is the flat, persisted form of an Item. It is the row of the SQLite snapshot table
// and the line of the CSV file. Nil pointers mean the value is absent.
type ItemRecord struct {
	ID              int        `gorm:"primaryKey;autoIncrement:false"`
	Position        int        `gorm:"not null;index"`
	Kind            Kind       `gorm:"not null"`
	Name            string     `gorm:"not null"`
	Status          Status     `gorm:"not null;default:'NEW'"`
	Description     string
	StartTime       *time.Time `gorm:"column:start_time"`
	DurationMinutes *int64     `gorm:"column:duration_minutes"`
	EpicID          *int       `gorm:"column:epic_id;index"`
}

// TableName specifies the table name for ItemRecord Model
func (ItemRecord) TableName() string {
	return "items"
}

// NewItemRecord flattens it. position keeps the export order.
func NewItemRecord(it Item, position int) ItemRecord {
	rec := ItemRecord{
		ID:       it.Identity(),
		Position: position,
		Kind:     it.Kind(),
		Status:   it.State(),
	}
	switch v := it.(type) {
	case *Task:
		rec.Name, rec.Description = v.Name, v.Description
	case *Subtask:
		rec.Name, rec.Description = v.Name, v.Description
		epicID := v.EpicID()
		rec.EpicID = &epicID
	case *Epic:
		rec.Name, rec.Description = v.Name, v.Description
	}

	sch := it.Timing()
	if sch.Start != nil {
		start := *sch.Start
		rec.StartTime = &start
	}
	if sch.Duration != nil {
		minutes := int64(*sch.Duration / time.Minute)
		rec.DurationMinutes = &minutes
	}
	return rec
}

// Item rebuilds the concrete item. Epic status and schedule are not restored: they are derived
// again once the epic's subtasks are attached.
func (r ItemRecord) Item() (Item, error) {
	status, err := ParseStatus(string(r.Status))
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", r.ID, err)
	}
	var sch Schedule
	if r.StartTime != nil {
		start := *r.StartTime
		sch.Start = &start
	}
	if r.DurationMinutes != nil {
		d, err := DurationFromMinutes(*r.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", r.ID, err)
		}
		sch.Duration = &d
	}
	if err := sch.Validate(); err != nil {
		return nil, fmt.Errorf("item %d: %w", r.ID, err)
	}

	switch r.Kind {
	case KindTask:
		t := NewTask(r.Name, r.Description)
		t.ID = r.ID
		t.Status = status
		t.Schedule = sch
		return t, nil
	case KindSubtask:
		if r.EpicID == nil {
			return nil, fmt.Errorf("item %d: subtask without epic", r.ID)
		}
		s := NewSubtask(r.Name, r.Description, *r.EpicID)
		s.ID = r.ID
		s.Status = status
		s.Schedule = sch
		return s, nil
	case KindEpic:
		e := NewEpic(r.Name, r.Description)
		e.ID = r.ID
		return e, nil
	}
	return nil, fmt.Errorf("item %d: %w: %q", r.ID, ErrInvalidKind, r.Kind)
}
