package models

import (
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/enums"
)

// User is an account that owns projects and media.
type User struct {
	ID             string             `json:"id" bson:"id,omitempty" gorm:"column:id;type:varchar(64);primaryKey"`
	Email          string             `json:"email" bson:"email" gorm:"column:email;not null;uniqueIndex:idx_user_email"`
	Name           *string            `json:"name,omitempty" bson:"name,omitempty" gorm:"column:name"`
	Provider       enums.AuthProvider `json:"provider" bson:"provider" gorm:"column:provider;not null"`
	HashedPassword *string            `json:"-" bson:"hashed_password,omitempty" gorm:"column:hashed_password"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at" gorm:"column:created_at"`
}

func UserID(u *User) *string { return &u.ID }
