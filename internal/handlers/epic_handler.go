package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GetEpics handles GET /api/epics
func (h *TaskHandler) GetEpics(c *gin.Context) {
	c.JSON(http.StatusOK, toResponses(h.store.GetEpics(), h.loc))
}

// GetEpicByID handles GET /api/epics/:id
func (h *TaskHandler) GetEpicByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.store.GetEpicByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(e))
}

// GetEpicSubtasks handles GET /api/epics/:id/subtasks
func (h *TaskHandler) GetEpicSubtasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	subs, err := h.store.GetSubtasksOfEpic(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(subs, h.loc))
}

// CreateEpic handles POST /api/epics. Status and schedule are derived and rejected if sent.
func (h *TaskHandler) CreateEpic(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if req.ID != 0 {
		h.updateEpic(c, req)
		return
	}
	e, err := req.epic()
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := h.store.CreateEpic(e)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.respond(created))
}

// UpdateEpic handles POST|PUT /api/epics/:id. Only name and description change.
func (h *TaskHandler) UpdateEpic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindItem(c)
	if !ok {
		return
	}
	req.ID = id
	h.updateEpic(c, req)
}

func (h *TaskHandler) updateEpic(c *gin.Context, req ItemRequest) {
	e, err := req.epic()
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := h.store.UpdateEpic(e)
	if err != nil {
		writeError(c, err)
		return
	}
	if updated == nil {
		notFound(c, models.KindEpic, req.ID)
		return
	}
	c.JSON(http.StatusOK, h.respond(updated))
}

// DeleteEpic handles DELETE /api/epics/:id and removes its subtasks too.
func (h *TaskHandler) DeleteEpic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.store.DeleteEpicByID(id)
	deleted(c, models.KindEpic, id)
}

// ClearEpics handles DELETE /api/epics
func (h *TaskHandler) ClearEpics(c *gin.Context) {
	h.store.ClearEpics()
	c.JSON(http.StatusOK, gin.H{"message": "All epics and subtasks deleted"})
}
