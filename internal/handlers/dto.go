package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ItemRequest is the create/update payload shared by tasks, subtasks and epics.
// Times use models.TimeLayout and durations are whole minutes.
type ItemRequest struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	StartTime   *string `json:"startTime"`
	Duration    *int64  `json:"duration"`
	EpicID      *int    `json:"epicId"`
}

// ItemResponse is the JSON shape of every stored item.
type ItemResponse struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	StartTime   *string `json:"startTime"`
	Duration    *int64  `json:"duration"`
	EndTime     *string `json:"endTime"`
	EpicID      *int    `json:"epicId,omitempty"`
	SubtaskIDs  []int   `json:"subtaskIds,omitempty"`
}

var errBadTime = errors.New("invalid startTime")

func (r ItemRequest) schedule(loc *time.Location) (models.Schedule, error) {
	var s models.Schedule
	if r.StartTime != nil {
		start, err := time.ParseInLocation(models.TimeLayout, *r.StartTime, loc)
		if err != nil {
			return s, fmt.Errorf("%w: want %q", errBadTime, models.TimeLayout)
		}
		s.Start = &start
	}
	if r.Duration != nil {
		d, err := models.DurationFromMinutes(*r.Duration)
		if err != nil {
			return s, err
		}
		s.Duration = &d
	}
	return s, nil
}

func (r ItemRequest) task(loc *time.Location) (*models.Task, error) {
	sched, err := r.schedule(loc)
	if err != nil {
		return nil, err
	}
	t := models.NewTask(r.Name, r.Description)
	t.ID = r.ID
	if r.Status != "" {
		if err := t.SetStatus(models.Status(r.Status)); err != nil {
			return nil, err
		}
	}
	if err := t.SetSchedule(sched); err != nil {
		return nil, err
	}
	return t, nil
}

func (r ItemRequest) subtask(loc *time.Location, epicID int) (*models.Subtask, error) {
	t, err := r.task(loc)
	if err != nil {
		return nil, err
	}
	s := models.NewSubtask(t.Name, t.Description, epicID)
	s.Task = *t
	return s, nil
}

// epic rejects the derived fields through the epic's own setters.
func (r ItemRequest) epic() (*models.Epic, error) {
	e := models.NewEpic(r.Name, r.Description)
	e.ID = r.ID
	if r.Status != "" {
		if err := e.SetStatus(models.Status(r.Status)); err != nil {
			return nil, err
		}
	}
	if r.StartTime != nil || r.Duration != nil {
		if err := e.SetSchedule(models.Schedule{}); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func formatTime(t time.Time, loc *time.Location) *string {
	s := t.In(loc).Format(models.TimeLayout)
	return &s
}

func toResponse(it models.Item, loc *time.Location) ItemResponse {
	resp := ItemResponse{
		ID:     it.Identity(),
		Type:   string(it.Kind()),
		Status: string(it.State()),
	}
	sched := it.Timing()
	if sched.Start != nil {
		resp.StartTime = formatTime(*sched.Start, loc)
	}
	if sched.Duration != nil {
		minutes := int64(*sched.Duration / time.Minute)
		resp.Duration = &minutes
	}
	if end, ok := it.EndTime(); ok {
		resp.EndTime = formatTime(end, loc)
	}
	switch v := it.(type) {
	case *models.Subtask:
		resp.Name, resp.Description = v.Name, v.Description
		epicID := v.EpicID()
		resp.EpicID = &epicID
	case *models.Task:
		resp.Name, resp.Description = v.Name, v.Description
	case *models.Epic:
		resp.Name, resp.Description = v.Name, v.Description
		resp.SubtaskIDs = v.SubtaskIDs()
	}
	return resp
}

func toResponses[T models.Item](items []T, loc *time.Location) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it, loc))
	}
	return out
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func bindItem(c *gin.Context) (ItemRequest, bool) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

// writeError maps store and model errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, manager.ErrNotFound), errors.Is(err, manager.ErrReferentialIntegrity):
		status = http.StatusNotFound
	case errors.Is(err, manager.ErrOverlapConflict):
		status = http.StatusNotAcceptable
	case errors.Is(err, models.ErrInvalidOperation),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, errBadTime):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, kind models.Kind, id int) {
	writeError(c, fmt.Errorf("%s %d: %w", kind, id, manager.ErrNotFound))
}

func deleted(c *gin.Context, kind models.Kind, id int) {
	c.JSON(http.StatusOK, gin.H{
		"message": string(kind) + " deleted successfully",
		"id":      id,
	})
}
