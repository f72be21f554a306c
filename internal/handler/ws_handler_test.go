package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/realtime"
	"github.com/netpointcafe/portal-backend/internal/service"
)

type fakeStaffChecker struct{ staff map[string]bool }

func (f *fakeStaffChecker) IsStaff(ctx context.Context, uid string) (bool, error) {
	return f.staff[uid], nil
}

// wsChatService tracks conversation ownership so subscribe checks behave like
// the real service: owners may watch their own conversation, staff may watch
// any.
type wsChatService struct {
	fakeChatService
	owners map[uint64]string
}

func (f *wsChatService) VerifyAccess(ctx context.Context, convID uint64, callerUID string, staff bool) error {
	if staff {
		return nil
	}
	if f.owners[convID] == callerUID {
		return nil
	}
	return service.ErrForbidden
}

type wsFrame struct {
	Type           string            `json:"type"`
	Code           string            `json:"code"`
	ConversationID uint64            `json:"conversationId"`
	Message        model.ChatMessage `json:"message"`
}

func newWSServer(t *testing.T, svc service.ChatService, staff map[string]bool) (*httptest.Server, *realtime.Hub) {
	t.Helper()
	hub := realtime.NewHub()
	h := NewWSHandler(hub, svc, &fakeStaffChecker{staff: staff})
	e := echo.New()
	e.GET("/ws", h.Handle, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := c.Request().Header.Get("X-Session-UID"); uid != "" {
				c.Set("uid", uid)
			}
			return next(c)
		}
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server, uid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	hdr := http.Header{"X-Session-UID": []string{uid}}
	ws, _, err := websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	if got := readFrame(t, ws); got.Type != "connected" {
		t.Fatalf("greeting=%+v want connected", got)
	}
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) wsFrame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f wsFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return f
}

func writeFrame(t *testing.T, ws *websocket.Conn, raw string) {
	t.Helper()
	if err := ws.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWSSubscribeFrames(t *testing.T) {
	svc := &wsChatService{owners: map[uint64]string{5: "cust-1"}}
	srv, _ := newWSServer(t, svc, map[string]bool{"staff-1": true})

	tests := []struct {
		name     string
		uid      string
		frame    string
		wantType string
		wantCode string
	}{
		{"own conversation", "cust-1", `{"type":"subscribe","conversationId":5}`, "subscribed", ""},
		{"foreign conversation", "cust-2", `{"type":"subscribe","conversationId":5}`, "error", "forbidden"},
		{"staff any conversation", "staff-1", `{"type":"subscribe","conversationId":5}`, "subscribed", ""},
		{"missing conversation id", "cust-1", `{"type":"subscribe"}`, "error", "bad_frame"},
		{"customer conversation list", "cust-1", `{"type":"subscribe_conversations"}`, "error", "forbidden"},
		{"staff conversation list", "staff-1", `{"type":"subscribe_conversations"}`, "subscribed_conversations", ""},
		{"unknown type", "cust-1", `{"type":"shout"}`, "error", "bad_frame"},
		{"invalid json", "cust-1", `{nope`, "error", "bad_frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := dialWS(t, srv, tt.uid)
			writeFrame(t, ws, tt.frame)
			got := readFrame(t, ws)
			if got.Type != tt.wantType || got.Code != tt.wantCode {
				t.Fatalf("frame=%+v want type=%q code=%q", got, tt.wantType, tt.wantCode)
			}
		})
	}
}

func TestWSRejectsMissingSession(t *testing.T) {
	srv, _ := newWSServer(t, &wsChatService{}, nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		_ = ws.Close()
		t.Fatalf("dial succeeded without a session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp=%+v want 401", resp)
	}
}

func TestWSDeliversSubscribedMessages(t *testing.T) {
	svc := &wsChatService{owners: map[uint64]string{5: "cust-1"}}
	srv, hub := newWSServer(t, svc, nil)

	ws := dialWS(t, srv, "cust-1")
	writeFrame(t, ws, `{"type":"subscribe","conversationId":5}`)
	if got := readFrame(t, ws); got.Type != "subscribed" || got.ConversationID != 5 {
		t.Fatalf("ack=%+v", got)
	}

	msg := model.ChatMessage{ID: 1, ConversationID: 5, SenderUID: "staff-1", Body: "station 4 is free", IsStaff: true}
	if n := hub.BroadcastMessage(5, msg); n != 1 {
		t.Fatalf("delivered=%d want 1", n)
	}
	got := readFrame(t, ws)
	if got.Type != realtime.EventMessage || got.Message.Body != "station 4 is free" {
		t.Fatalf("event=%+v", got)
	}
}

func TestWSCloseReleasesScopes(t *testing.T) {
	svc := &wsChatService{owners: map[uint64]string{5: "cust-1"}}
	srv, hub := newWSServer(t, svc, nil)

	ws := dialWS(t, srv, "cust-1")
	writeFrame(t, ws, `{"type":"subscribe","conversationId":5}`)
	if got := readFrame(t, ws); got.Type != "subscribed" {
		t.Fatalf("ack=%+v", got)
	}
	_ = ws.Close()

	msg := model.ChatMessage{ID: 2, ConversationID: 5, Body: "anyone there?"}
	deadline := time.Now().Add(2 * time.Second)
	for hub.BroadcastMessage(5, msg) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription survived socket close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
