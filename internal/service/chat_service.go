package service

import (
	"context"
	"errors"
	"strings"

	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ChatPublisher is the slice of the realtime hub the chat service needs.
type ChatPublisher interface {
	BroadcastMessage(conversationID uint64, msg model.ChatMessage) int
	BroadcastConversationsChanged() int
}

// ConversationSummary is a conversation row plus the owner's display name,
// resolved in bulk for the staff console.
type ConversationSummary struct {
	model.Conversation
	UserName string `json:"userName"`
}

type ChatService interface {
	// Resolve finds the caller's active conversation or creates one. It is
	// idempotent under concurrent calls: a loser of the insert race re-reads
	// the winner's row.
	Resolve(ctx context.Context, userUID string) (*model.Conversation, error)
	History(ctx context.Context, convID uint64, callerUID string, staff bool) ([]model.ChatMessage, error)
	Send(ctx context.Context, convID uint64, senderUID, body string, staff bool, dedupeKey *string) (*model.ChatMessage, error)
	ListConversations(ctx context.Context) ([]ConversationSummary, error)
	Close(ctx context.Context, convID uint64) error
	VerifyAccess(ctx context.Context, convID uint64, callerUID string, staff bool) error
}

type chatService struct {
	repo     repository.ChatRepository
	profiles repository.ProfileRepository
	pub      ChatPublisher
}

func NewChatService(repo repository.ChatRepository, profiles repository.ProfileRepository, pub ChatPublisher) ChatService {
	return &chatService{repo: repo, profiles: profiles, pub: pub}
}

func (s *chatService) Resolve(ctx context.Context, userUID string) (*model.Conversation, error) {
	if userUID == "" {
		return nil, errors.New("user uid is required")
	}
	cv, err := s.repo.FindActiveByUser(ctx, userUID)
	if err == nil {
		return cv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key := userUID
	fresh := &model.Conversation{
		UserUID:       userUID,
		Status:        model.ConversationActive,
		ActiveUserKey: &key,
	}
	if err := s.repo.CreateConversation(ctx, fresh); err != nil {
		// A concurrent resolve won the insert; the unique active key makes
		// the loser observable, so return the winner's row instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.FindActiveByUser(ctx, userUID)
		}
		return nil, err
	}
	s.pub.BroadcastConversationsChanged()
	return fresh, nil
}

func (s *chatService) History(ctx context.Context, convID uint64, callerUID string, staff bool) ([]model.ChatMessage, error) {
	if err := s.VerifyAccess(ctx, convID, callerUID, staff); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, convID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

func (s *chatService) Send(ctx context.Context, convID uint64, senderUID, body string, staff bool, dedupeKey *string) (*model.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("body is required")
	}
	if err := s.VerifyAccess(ctx, convID, senderUID, staff); err != nil {
		return nil, err
	}
	msg := &model.ChatMessage{
		ConversationID: convID,
		SenderUID:      senderUID,
		Body:           body,
		IsStaff:        staff,
		DedupeKey:      dedupeKey,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	// The sender gets the message back through the feed like everyone else;
	// the HTTP response carries no message body.
	s.pub.BroadcastMessage(convID, *msg)
	s.pub.BroadcastConversationsChanged()
	return msg, nil
}

func (s *chatService) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	convs, err := s.repo.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	uidSet := make(map[string]struct{}, len(convs))
	uids := make([]string, 0, len(convs))
	for _, cv := range convs {
		if _, ok := uidSet[cv.UserUID]; !ok {
			uidSet[cv.UserUID] = struct{}{}
			uids = append(uids, cv.UserUID)
		}
	}
	// One batched lookup for all owners instead of a query per row.
	profiles, err := s.profiles.FindByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if p.FullName != nil && *p.FullName != "" {
			names[p.UID] = *p.FullName
		}
	}

	out := make([]ConversationSummary, 0, len(convs))
	for _, cv := range convs {
		name := names[cv.UserUID]
		if name == "" {
			name = "User"
		}
		out = append(out, ConversationSummary{Conversation: cv, UserName: name})
	}
	return out, nil
}

func (s *chatService) Close(ctx context.Context, convID uint64) error {
	if err := s.repo.CloseConversation(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.pub.BroadcastConversationsChanged()
	return nil
}

func (s *chatService) VerifyAccess(ctx context.Context, convID uint64, callerUID string, staff bool) error {
	cv, err := s.repo.FindConversation(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !staff && cv.UserUID != callerUID {
		return ErrForbidden
	}
	return nil
}
