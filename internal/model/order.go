package model

import "time"

const (
	OrderPending    = "pending"
	OrderInProgress = "in_progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID     string    `gorm:"column:user_uid;size:128;index" json:"userUid"`
	ServiceID   *uint64   `gorm:"column:service_id;index" json:"serviceId,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Status      string    `gorm:"column:status;size:16;not null;default:pending" json:"status"`
	TotalCents  *uint     `gorm:"column:total_cents" json:"totalCents,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
