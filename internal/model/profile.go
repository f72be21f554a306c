package model

import "time"

type Profile struct {
	UID          string    `gorm:"column:uid;primaryKey;size:128" json:"uid"`
	FullName     *string   `gorm:"column:full_name;size:255" json:"fullName"`
	Username     *string   `gorm:"column:username;size:64" json:"username"`
	Phone        *string   `gorm:"column:phone;size:32" json:"phone"`
	ReferralCode *string   `gorm:"column:referral_code;size:16;index" json:"referralCode"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
