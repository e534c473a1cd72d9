package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GetSubtasks handles GET /api/subtasks
func (h *TaskHandler) GetSubtasks(c *gin.Context) {
	c.JSON(http.StatusOK, toResponses(h.store.GetSubtasks(), h.loc))
}

// GetSubtaskByID handles GET /api/subtasks/:id
func (h *TaskHandler) GetSubtaskByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.store.GetSubtaskByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(s))
}

// CreateSubtask handles POST /api/subtasks. epicId is required.
func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if req.ID != 0 {
		h.updateSubtask(c, req)
		return
	}
	if req.EpicID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "epicId is required"})
		return
	}
	s, err := req.subtask(h.loc, *req.EpicID)
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := h.store.CreateSubtask(s)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.respond(created))
}

// UpdateSubtask handles POST|PUT /api/subtasks/:id. The owning epic never changes.
func (h *TaskHandler) UpdateSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindItem(c)
	if !ok {
		return
	}
	req.ID = id
	h.updateSubtask(c, req)
}

func (h *TaskHandler) updateSubtask(c *gin.Context, req ItemRequest) {
	s, err := req.subtask(h.loc, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := h.store.UpdateSubtask(s)
	if err != nil {
		writeError(c, err)
		return
	}
	if updated == nil {
		notFound(c, models.KindSubtask, req.ID)
		return
	}
	c.JSON(http.StatusOK, h.respond(updated))
}

// DeleteSubtask handles DELETE /api/subtasks/:id
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.store.DeleteSubtaskByID(id)
	deleted(c, models.KindSubtask, id)
}

// ClearSubtasks handles DELETE /api/subtasks
func (h *TaskHandler) ClearSubtasks(c *gin.Context) {
	h.store.ClearSubtasks()
	c.JSON(http.StatusOK, gin.H{"message": "All subtasks deleted"})
}
