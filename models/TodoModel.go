package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrValidation is returned when a todo document fails schema validation.
var ErrValidation = errors.New("validation failed")

type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in-progress"
	StatusCompleted  TodoStatus = "completed"
)

func (s TodoStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Todo struct {
	ID string `gorm:"type:uuid;primarykey" bson:"_id" json:"id"`

	Title   string     `gorm:"not null" bson:"title" json:"title"`
	Status  TodoStatus `gorm:"not null;default:pending" bson:"status" json:"status"`
	OwnerID string     `gorm:"type:uuid;not null;index" bson:"ownerId" json:"ownerId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Normalize trims the title, fills in the default status and checks the
// document before it is written.
func (t *Todo) Normalize() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q is not a valid status", ErrValidation, t.Status)
	}
	if t.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", ErrValidation)
	}
	return nil
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t.Normalize()
}

// TodoUpdate holds the fields a PUT may replace. Nil fields are left alone.
type TodoUpdate struct {
	Title  *string
	Status *TodoStatus
}

func (u *TodoUpdate) Empty() bool {
	return u.Title == nil && u.Status == nil
}

func (u *TodoUpdate) Normalize() error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		u.Title = &title
	}
	if u.Status != nil && !u.Status.IsValid() {
		return fmt.Errorf("%w: %q is not a valid status", ErrValidation, *u.Status)
	}
	return nil
}

// Fields returns the update as column/field name pairs. The same names are
// used by gorm (column names) and mongo (bson field names).
func (u *TodoUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Status != nil {
		fields["status"] = string(*u.Status)
	}
	return fields
}
