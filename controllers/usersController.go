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
	msgAllFieldsRequired  = "All fields are required"
	msgWeakPassword       = "Password must be at least 8 characters long, contain at least one uppercase letter, one lowercase letter, one number, and one special character."
	msgPasswordTooLong    = "Password must be at most 72 bytes long"
	msgPasswordMismatch   = "Passwords do not match"
	msgUserExists         = "Username or email already exists"
	msgRegistered         = "User registered successfully"
	msgSigninFieldsNeeded = "Username and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgSignedIn           = "Sign in successful"
)

// Signup validates the payload, then hashes the password on the worker pool
// before storing the user.
func (h *Handler) Signup(c *gin.Context) {
	var body struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Username == "" || body.Email == "" || body.Password == "" || body.ConfirmPassword == "" {
		h.jsonError(c, http.StatusBadRequest, msgAllFieldsRequired)
		return
	}
	if !services.CheckPasswordStrength(body.Password) {
		h.jsonError(c, http.StatusBadRequest, msgWeakPassword)
		return
	}
	if len(body.Password) > services.MaxPasswordBytes {
		h.jsonError(c, http.StatusBadRequest, msgPasswordTooLong)
		return
	}
	if body.Password != body.ConfirmPassword {
		h.jsonError(c, http.StatusBadRequest, msgPasswordMismatch)
		return
	}

	ctx := c.Request.Context()

	_, err := h.Users.FindByEmailOrUsername(ctx, body.Username, body.Email)
	if err == nil {
		h.jsonError(c, http.StatusBadRequest, msgUserExists)
		return
	}
	if !errors.Is(err, stores.ErrNotFound) {
		h.internalError(c, "check existing user", err)
		return
	}

	hash, err := h.Hasher.GenerateHash(ctx, body.Password)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	user := models.User{Username: body.Username, Email: body.Email, PasswordHash: hash}
	if err := h.Users.Create(ctx, &user); err != nil {
		// Lost a race with a concurrent signup; the unique index caught it.
		if errors.Is(err, stores.ErrConflict) {
			h.jsonError(c, http.StatusBadRequest, msgUserExists)
			return
		}
		h.internalError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msgRegistered})
}

// Signin checks the credentials and returns the user together with a bearer
// token for the todo routes. Unknown users and wrong passwords get the same
// answer.
func (h *Handler) Signin(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Username == "" || body.Password == "" {
		h.jsonError(c, http.StatusBadRequest, msgSigninFieldsNeeded)
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByUsername(ctx, body.Username)
	if errors.Is(err, stores.ErrNotFound) {
		h.jsonError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.internalError(c, "find user", err)
		return
	}

	match, err := h.Hasher.Compare(ctx, body.Password, user.PasswordHash)
	if err != nil {
		h.internalError(c, "compare password", err)
		return
	}
	if !match {
		h.jsonError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.internalError(c, "issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgSignedIn,
		"token":   token,
		"user": gin.H{
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
