package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

type UserRole struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID   string    `gorm:"column:user_uid;size:128;uniqueIndex:uniq_user_role" json:"userUid"`
	Role      string    `gorm:"column:role;size:16;uniqueIndex:uniq_user_role" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
