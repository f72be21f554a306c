package repository

import (
	"context"
	"errors"
	"time"

	"github.com/netpointcafe/portal-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type ChatRepository interface {
	FindActiveByUser(ctx context.Context, userUID string) (*model.Conversation, error)
	CreateConversation(ctx context.Context, cv *model.Conversation) error
	FindConversation(ctx context.Context, id uint64) (*model.Conversation, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	CloseConversation(ctx context.Context, id uint64) error
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	ListMessages(ctx context.Context, convID uint64) ([]model.ChatMessage, error)
	SetDB(db *gorm.DB)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *chatRepository) FindActiveByUser(ctx context.Context, userUID string) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_uid = ? AND status = ?", userUID, model.ConversationActive).
		Order("id DESC").
		First(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *chatRepository) CreateConversation(ctx context.Context, cv *model.Conversation) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(cv).Error
}

func (r *chatRepository) FindConversation(ctx context.Context, id uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *chatRepository) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Order("last_message_at IS NULL, last_message_at DESC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CloseConversation marks the conversation closed and frees the unique
// active key so the owner can open a new thread later.
func (r *chatRepository) CloseConversation(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          model.ConversationClosed,
			"active_user_key": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateMessage inserts the message and bumps the parent conversation's
// last_message_at inside one transaction.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		now := time.Now()
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

func (r *chatRepository) ListMessages(ctx context.Context, convID uint64) ([]model.ChatMessage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
