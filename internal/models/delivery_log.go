package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushDelivery is one delivery attempt against one endpoint. Rows expire
// via a TTL index on expires_at; this is operational history, not state.
type PushDelivery struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   string             `bson:"user_id" json:"user_id"`
	Endpoint string             `bson:"endpoint" json:"endpoint"`

	StatusCode int    `bson:"status_code" json:"status_code"`
	Error      string `bson:"error,omitempty" json:"error,omitempty"`
	Gone       bool   `bson:"gone" json:"gone"` // push service reported the endpoint dead

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
