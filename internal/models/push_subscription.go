package models

import "time"

// PushSubscription is one device's web-push registration. Endpoint is the
// natural key: re-subscribing the same device overwrites, never duplicates.
type PushSubscription struct {
	Endpoint  string    `gorm:"column:endpoint;type:text;primaryKey" json:"endpoint"`
	UserID    string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	P256dh    string    `gorm:"column:p256dh;type:text" json:"p256dh"`
	Auth      string    `gorm:"column:auth;type:text" json:"auth"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
