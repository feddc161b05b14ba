package controllers

import (
	"github.com/RushabhMehta2005/todo-auth/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all available routes.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	// Public routes
	router.GET("/", h.Welcome)
	router.POST("/signup", h.Signup)
	router.POST("/signin", h.Signin)

	// Protected routes - Todos
	todos := router.Group("/todos")
	todos.Use(middleware.RequireAuth(h.Tokens))
	todos.POST("", middleware.WithIdentity(h.CreateTodo))
	todos.GET("", middleware.WithIdentity(h.ListTodos))
	todos.GET("/:id", middleware.WithIdentity(h.GetTodo))
	todos.PUT("/:id", middleware.WithIdentity(h.UpdateTodo))
	todos.DELETE("/:id", middleware.WithIdentity(h.DeleteTodo))
}
