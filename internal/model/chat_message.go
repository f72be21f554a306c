package model

import "time"

// ChatMessage is immutable once created. DedupeKey is an optional
// client-generated uuid echoed back through the live feed so optimistic
// local sends can be reconciled. ReadAt is stored for a future read-receipt
// feature but no endpoint sets or reads it.
type ChatMessage struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64     `gorm:"column:conversation_id;index" json:"conversationId"`
	SenderUID      string     `gorm:"column:sender_uid;size:128;index" json:"senderUid"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	IsStaff        bool       `gorm:"column:is_staff;not null" json:"isStaff"`
	DedupeKey      *string    `gorm:"column:dedupe_key;size:36" json:"dedupeKey,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
