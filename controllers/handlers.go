package controllers

import (
	"log"
	"net/http"

	"github.com/RushabhMehta2005/todo-auth/services"
	"github.com/RushabhMehta2005/todo-auth/stores"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const welcomeMessage = "Welcome to the Sign In/Up API"

// Handler holds the application's dependencies, making them explicit.
type Handler struct {
	Users  stores.UserStore
	Todos  stores.TodoStore
	Hasher *services.Hasher
	Tokens *services.TokenService
}

// NewHandler creates a new handler with its dependencies.
func NewHandler(users stores.UserStore, todos stores.TodoStore, hasher *services.Hasher, tokens *services.TokenService) *Handler {
	return &Handler{
		Users:  users,
		Todos:  todos,
		Hasher: hasher,
		Tokens: tokens,
	}
}

func (h *Handler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

// ## Helper Methods

func (h *Handler) jsonError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// internalError logs err server-side and answers with a generic 500.
func (h *Handler) internalError(c *gin.Context, op string, err error) {
	log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, op, err)
	h.jsonError(c, http.StatusInternalServerError, "Internal server error")
}

// parseID reports whether idStr can name a todo. Ids that can't are treated
// as absent.
func (h *Handler) parseID(idStr string) (string, bool) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
