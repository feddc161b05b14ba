package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID string `gorm:"type:uuid;primarykey" bson:"_id" json:"id"`

	Username     string `gorm:"uniqueIndex;not null" bson:"username" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string `gorm:"not null" bson:"passwordHash" json:"-"`
}

// BeforeCreate assigns an id to users created through gorm.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
