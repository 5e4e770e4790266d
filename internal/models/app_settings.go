package models

import "time"

// AppSettings is the tenant-wide presentation singleton. The row always
// has ID 1 so there is never more than one current record.
type AppSettings struct {
	ID             int       `gorm:"column:id;primaryKey" json:"id"`
	PrimaryColor   string    `gorm:"column:primary_color;type:text" json:"primary_color"`
	SecondaryColor string    `gorm:"column:secondary_color;type:text" json:"secondary_color"`
	FontFamily     string    `gorm:"column:font_family;type:text" json:"font_family"`
	CustomCSS      string    `gorm:"column:custom_css;type:text" json:"custom_css"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (AppSettings) TableName() string { return "app_settings" }

const SettingsSingletonID = 1

// ColorChannels is one color expressed in every form the clients consume.
type ColorChannels struct {
	Hex string     `json:"hex"`
	HSL [3]float64 `json:"hsl"`
	RGB [3]uint8   `json:"rgb"`
	// Dark is the hex darkened for hover/active states.
	Dark string `json:"dark"`
}

// Theme is the derived value object handed to clients instead of raw
// settings, so no client has to re-run the color math.
type Theme struct {
	Primary    ColorChannels `json:"primary"`
	Secondary  ColorChannels `json:"secondary"`
	FontFamily string        `json:"font_family"`
	CustomCSS  string        `json:"custom_css"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
