package handlers

import (
	"net/http"
	"time"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves the task, subtask, epic and view endpoints from one store.
type TaskHandler struct {
	store *manager.Manager
	loc   *time.Location
}

// NewTaskHandler parses and formats wire times in loc (time.Local when nil).
func NewTaskHandler(store *manager.Manager, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TaskHandler{store: store, loc: loc}
}

// GetTasks handles GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	c.JSON(http.StatusOK, toResponses(h.store.GetTasks(), h.loc))
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.store.GetTaskByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(t))
}

// CreateTask handles POST /api/tasks. A body carrying an id updates that task instead.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if req.ID != 0 {
		h.updateTask(c, req)
		return
	}
	t, err := req.task(h.loc)
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := h.store.CreateTask(t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.respond(created))
}

// UpdateTask handles POST|PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindItem(c)
	if !ok {
		return
	}
	req.ID = id
	h.updateTask(c, req)
}

func (h *TaskHandler) updateTask(c *gin.Context, req ItemRequest) {
	t, err := req.task(h.loc)
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := h.store.UpdateTask(t)
	if err != nil {
		writeError(c, err)
		return
	}
	if updated == nil {
		notFound(c, models.KindTask, req.ID)
		return
	}
	c.JSON(http.StatusOK, h.respond(updated))
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.store.DeleteTaskByID(id)
	deleted(c, models.KindTask, id)
}

// ClearTasks handles DELETE /api/tasks
func (h *TaskHandler) ClearTasks(c *gin.Context) {
	h.store.ClearTasks()
	c.JSON(http.StatusOK, gin.H{"message": "All tasks deleted"})
}

// GetHistory handles GET /api/history
func (h *TaskHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.respondAll(h.store.GetHistory()))
}

// GetPrioritized handles GET /api/prioritized
func (h *TaskHandler) GetPrioritized(c *gin.Context) {
	c.JSON(http.StatusOK, h.respondAll(h.store.GetPrioritizedTasks()))
}

func (h *TaskHandler) respond(it models.Item) ItemResponse {
	return toResponse(it, h.loc)
}

func (h *TaskHandler) respondAll(items []models.Item) []ItemResponse {
	return toResponses(items, h.loc)
}
