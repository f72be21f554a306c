package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/service"
)

type fakeChatService struct {
	conv    *model.Conversation
	history []model.ChatMessage
	err     error
	sent    []string
	closed  []uint64
}

func (f *fakeChatService) Resolve(ctx context.Context, userUID string) (*model.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conv, nil
}

func (f *fakeChatService) History(ctx context.Context, convID uint64, callerUID string, staff bool) ([]model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeChatService) Send(ctx context.Context, convID uint64, senderUID, body string, staff bool, dedupeKey *string) (*model.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("body is required")
	}
	f.sent = append(f.sent, body)
	return &model.ChatMessage{ConversationID: convID, SenderUID: senderUID, Body: body, IsStaff: staff}, nil
}

func (f *fakeChatService) ListConversations(ctx context.Context) ([]service.ConversationSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []service.ConversationSummary{}, nil
}

func (f *fakeChatService) Close(ctx context.Context, convID uint64) error {
	if f.err != nil {
		return f.err
	}
	f.closed = append(f.closed, convID)
	return nil
}

func (f *fakeChatService) VerifyAccess(ctx context.Context, convID uint64, callerUID string, staff bool) error {
	return f.err
}

func newChatContext(t *testing.T, method, path, body, uid string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("uid", uid)
	}
	return c, rec
}

func TestResolveRequiresAuth(t *testing.T) {
	h := NewChatHandler(&fakeChatService{})
	c, rec := newChatContext(t, http.MethodPost, "/api/chat/conversation", "", "")
	if err := h.Resolve(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", rec.Code)
	}
}

func TestResolveReturnsConversation(t *testing.T) {
	svc := &fakeChatService{conv: &model.Conversation{ID: 7, UserUID: "cust-1", Status: model.ConversationActive}}
	h := NewChatHandler(svc)
	c, rec := newChatContext(t, http.MethodPost, "/api/chat/conversation", "", "cust-1")
	if err := h.Resolve(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d want 200", rec.Code)
	}
	var got model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 7 || got.Status != model.ConversationActive {
		t.Fatalf("unexpected conversation %+v", got)
	}
}

func TestResolveFailureIsRecoverable(t *testing.T) {
	svc := &fakeChatService{err: errors.New("backend down")}
	h := NewChatHandler(svc)
	c, rec := newChatContext(t, http.MethodPost, "/api/chat/conversation", "", "cust-1")
	if err := h.Resolve(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Message != "failed to start conversation" {
		t.Fatalf("message=%q", resp.Error.Message)
	}
}

func TestSendStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		body     string
		wantCode int
	}{
		{"created", nil, `{"body":"hello"}`, http.StatusCreated},
		{"empty body", nil, `{"body":""}`, http.StatusBadRequest},
		{"not found", service.ErrNotFound, `{"body":"hello"}`, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, `{"body":"hello"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChatHandler(&fakeChatService{err: tt.svcErr})
			c, rec := newChatContext(t, http.MethodPost, "/api/chat/conversations/5/messages", tt.body, "cust-1")
			c.SetParamNames("id")
			c.SetParamValues("5")
			if err := h.Send(c); err != nil {
				t.Fatalf("handler err: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code=%d want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestHistoryBadConversationID(t *testing.T) {
	h := NewChatHandler(&fakeChatService{})
	c, rec := newChatContext(t, http.MethodGet, "/api/chat/conversations/abc/messages", "", "cust-1")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.History(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code=%d want 400", rec.Code)
	}
}

func TestHistoryEmptyConversation(t *testing.T) {
	h := NewChatHandler(&fakeChatService{history: []model.ChatMessage{}})
	c, rec := newChatContext(t, http.MethodGet, "/api/chat/conversations/5/messages", "", "cust-1")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.History(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body=%q want []", rec.Body.String())
	}
}

func TestCloseConversation(t *testing.T) {
	svc := &fakeChatService{}
	h := NewChatHandler(svc)
	c, rec := newChatContext(t, http.MethodPost, "/api/care/conversations/9/close", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.CloseConversation(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d want 200", rec.Code)
	}
	if len(svc.closed) != 1 || svc.closed[0] != 9 {
		t.Fatalf("close not forwarded: %v", svc.closed)
	}
}
