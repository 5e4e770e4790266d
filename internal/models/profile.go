package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTester   SubscriptionStatus = "tester"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Gated returns true when the status grants access to subscriber content.
func (s SubscriptionStatus) Gated() bool {
	switch s {
	case SubscriptionTrialing, SubscriptionActive, SubscriptionTester:
		return true
	}
	return false
}

type Profile struct {
	UserID             string             `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Role               Role               `gorm:"column:role;type:text" json:"role"`
	SubscriptionStatus SubscriptionStatus `gorm:"column:subscription_status;type:text" json:"subscription_status"`
	DisplayName        string             `gorm:"column:display_name;type:text" json:"display_name"`

	StripeCustomerID string `gorm:"column:stripe_customer_id;type:text" json:"stripe_customer_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
