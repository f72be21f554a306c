package model

import "time"

// CatalogService is one offering of the café (printing, internet time,
// training courses and the like), shown on the public services page.
type CatalogService struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"column:name;size:120;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"column:category;size:64;index" json:"category"`
	PriceCents      uint      `gorm:"column:price_cents" json:"priceCents"`
	DurationMinutes *uint     `gorm:"column:duration_minutes" json:"durationMinutes,omitempty"`
	Active          bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CatalogService) TableName() string {
	return "services"
}
