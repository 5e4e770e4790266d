package models

import "time"

type PasswordReset struct {
	Token     string    `gorm:"column:token;type:text;primaryKey" json:"-"`
	UserID    string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;type:timestamptz" json:"expires_at"`
	Used      bool      `gorm:"column:used" json:"used"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (PasswordReset) TableName() string { return "password_resets" }
