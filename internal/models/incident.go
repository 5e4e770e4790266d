package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Incident struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title    string `gorm:"column:title;type:text" json:"title"`
	Body     string `gorm:"column:body;type:text" json:"body"`
	Category string `gorm:"column:category;type:text;index" json:"category"` // fire|ems|police|traffic|weather|other

	Units pq.StringArray `gorm:"column:units;type:text[]" json:"units"`

	// JSONB (location, cross streets, channel, whatever the dispatcher adds)
	Details datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`

	MediaPath string `gorm:"column:media_path;type:text" json:"media_path,omitempty"`

	PostedBy  string    `gorm:"column:posted_by;type:uuid;index" json:"posted_by"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Incident) TableName() string { return "incidents" }
