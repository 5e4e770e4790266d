package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEvent keeps the raw webhook payload for audit. EventID is the
// processor's id, unique so webhook retries are no-ops.
type BillingEvent struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventID   string         `gorm:"column:event_id;type:text;uniqueIndex" json:"event_id"`
	Type      string         `gorm:"column:type;type:text" json:"type"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (BillingEvent) TableName() string { return "billing_events" }
