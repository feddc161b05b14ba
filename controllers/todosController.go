package controllers

import (
	"errors"
	"net/http"

	"github.com/RushabhMehta2005/todo-auth/models"
	"github.com/RushabhMehta2005/todo-auth/services"
	"github.com/RushabhMehta2005/todo-auth/stores"
	"github.com/gin-gonic/gin"
)

const (
	msgTodoNotFound = "Todo not found"
	msgTodoDeleted  = "Todo deleted"
)

func (h *Handler) CreateTodo(c *gin.Context, user services.Identity) {
	var body struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	todo := models.Todo{
		Title:   body.Title,
		Status:  models.TodoStatus(body.Status),
		OwnerID: user.UserID,
	}

	if err := h.Todos.Create(c.Request.Context(), &todo); err != nil {
		if errors.Is(err, models.ErrValidation) {
			h.jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "create todo", err)
		return
	}

	c.JSON(http.StatusCreated, todo)
}

func (h *Handler) ListTodos(c *gin.Context, user services.Identity) {
	todos, err := h.Todos.ListByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		h.internalError(c, "list todos", err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	c.JSON(http.StatusOK, todos)
}

func (h *Handler) GetTodo(c *gin.Context, user services.Identity) {
	id, ok := h.parseID(c.Param("id"))
	if !ok {
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	todo, err := h.Todos.GetByIDAndOwner(c.Request.Context(), id, user.UserID)
	if errors.Is(err, stores.ErrNotFound) {
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}
	if err != nil {
		h.internalError(c, "get todo", err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// UpdateTodo replaces the title and/or status of one of the caller's todos.
// Other fields in the body (id, ownerId, timestamps) are ignored.
func (h *Handler) UpdateTodo(c *gin.Context, user services.Identity) {
	id, ok := h.parseID(c.Param("id"))
	if !ok {
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	var body struct {
		Title  *string            `json:"title"`
		Status *models.TodoStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	update := models.TodoUpdate{Title: body.Title, Status: body.Status}
	todo, err := h.Todos.UpdateByIDAndOwner(c.Request.Context(), id, user.UserID, update)
	switch {
	case errors.Is(err, models.ErrValidation):
		h.jsonError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, stores.ErrNotFound):
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	case err != nil:
		h.internalError(c, "update todo", err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *Handler) DeleteTodo(c *gin.Context, user services.Identity) {
	id, ok := h.parseID(c.Param("id"))
	if !ok {
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}

	_, err := h.Todos.DeleteByIDAndOwner(c.Request.Context(), id, user.UserID)
	if errors.Is(err, stores.ErrNotFound) {
		h.jsonError(c, http.StatusNotFound, msgTodoNotFound)
		return
	}
	if err != nil {
		h.internalError(c, "delete todo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgTodoDeleted})
}
