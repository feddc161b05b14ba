// Package stores holds the credential and todo persistence layers. Both the
// gorm and the mongo implementations scope every todo lookup by owner.
package stores

import (
	"context"
	"errors"

	"github.com/RushabhMehta2005/todo-auth/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("username or email already exists")
)

type UserStore interface {
	// Create inserts user, assigning its id. It returns ErrConflict when the
	// username or email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, username, email string) (*models.User, error)
}

type TodoStore interface {
	// Create validates and inserts todo. Validation failures wrap
	// models.ErrValidation.
	Create(ctx context.Context, todo *models.Todo) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID string, update models.TodoUpdate) (*models.Todo, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error)
}
