package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/RushabhMehta2005/todo-auth/models"
	"gorm.io/gorm"
)

type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return userResult(&user, err)
}

func (s *GormUserStore) FindByEmailOrUsername(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).
		Error
	return userResult(&user, err)
}

func userResult(user *models.User, err error) (*models.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

type GormTodoStore struct {
	DB *gorm.DB
}

func NewGormTodoStore(db *gorm.DB) *GormTodoStore {
	return &GormTodoStore{DB: db}
}

func (s *GormTodoStore) Create(ctx context.Context, todo *models.Todo) error {
	// Validation runs in the model's BeforeCreate hook.
	if err := s.DB.WithContext(ctx).Create(todo).Error; err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (s *GormTodoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&todos).
		Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *GormTodoStore) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	var todo models.Todo
	err := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&todo).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return &todo, nil
}

func (s *GormTodoStore) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, update models.TodoUpdate) (*models.Todo, error) {
	if err := update.Normalize(); err != nil {
		return nil, err
	}
	if update.Empty() {
		return s.GetByIDAndOwner(ctx, id, ownerID)
	}

	result := s.DB.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(update.Fields())

	if result.Error != nil {
		return nil, fmt.Errorf("update todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	// Reload the updated todo
	return s.GetByIDAndOwner(ctx, id, ownerID)
}

func (s *GormTodoStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	var deleted *models.Todo
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var todo models.Todo
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&todo).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Todo{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = &todo
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	return deleted, nil
}
