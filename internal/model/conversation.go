package model

import "time"

const (
	ConversationActive = "active"
	ConversationClosed = "closed"
)

// Conversation is a single support thread between one customer and staff.
// ActiveUserKey mirrors UserUID while the conversation is active and is
// cleared on close; its unique index guarantees at most one active
// conversation per user even under concurrent resolves.
type Conversation struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID       string     `gorm:"column:user_uid;size:128;index" json:"userUid"`
	Status        string     `gorm:"column:status;size:16;not null;default:active" json:"status"`
	ActiveUserKey *string    `gorm:"column:active_user_key;size:128;uniqueIndex" json:"-"`
	LastMessageAt *time.Time `gorm:"column:last_message_at" json:"lastMessageAt"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
