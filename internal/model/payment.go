package model

import "time"

type Payment struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint64    `gorm:"column:order_id;index" json:"orderId"`
	UserUID     string    `gorm:"column:user_uid;size:128;index" json:"userUid"`
	AmountCents uint      `gorm:"column:amount_cents;not null" json:"amountCents"`
	Method      *string   `gorm:"column:method;size:32" json:"method,omitempty"`
	Status      string    `gorm:"column:status;size:16;not null;default:pending" json:"status"`
	Reference   *string   `gorm:"column:reference;size:128" json:"reference,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}
